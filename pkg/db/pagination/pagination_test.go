package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Pagination{}.Normalize(20, 100)
	assert.Equal(t, Pagination{Page: 1, Limit: 20}, p)

	p = Pagination{Page: 3, Limit: 500}.Normalize(20, 100)
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, p)
	assert.Equal(t, 200, p.Offset())
}

func TestNewMeta(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		pages int
	}{
		{total: 0, limit: 10, pages: 0},
		{total: 10, limit: 10, pages: 1},
		{total: 11, limit: 10, pages: 2},
		{total: 25, limit: 10, pages: 3},
	}
	for _, tc := range cases {
		meta := NewMeta(tc.total, Pagination{Page: 2, Limit: tc.limit})
		assert.Equal(t, tc.pages, meta.Pages, "total=%d", tc.total)
		assert.Equal(t, tc.total, meta.Total)
	}
}
