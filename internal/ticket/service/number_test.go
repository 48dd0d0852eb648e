package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDNumberGenerator(t *testing.T) {
	gen := NewNumberGenerator()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		number, err := gen.Next("tkt", 8)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(number, "TKT-"))
		require.Len(t, number, 12)
		assert.Equal(t, strings.ToUpper(number), number)
		assert.False(t, seen[number], number)
		seen[number] = true
	}

	_, err := gen.Next("TKT", 0)
	assert.Error(t, err)
	_, err = gen.Next("TKT", 17)
	assert.Error(t, err)
}
