package db

import (
	"testing"

	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectSelection(t *testing.T) {
	for _, kind := range []string{"postgres", "mysql", "sqlite"} {
		dialector, err := Dialect(config.Config{DBType: kind, DBName: "voouch"})
		require.NoError(t, err)
		assert.Equal(t, kind, dialector.Name())
	}

	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteLacksLocksAndPartialIndexes(t *testing.T) {
	conn, err := NewTest()
	require.NoError(t, err)

	assert.False(t, SupportsRowLocks(conn))
	assert.False(t, SupportsPartialIndexes(conn))
	assert.False(t, SupportsPartialIndexes(nil))
}
