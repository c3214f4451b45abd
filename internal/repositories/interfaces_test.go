package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Pagination
		expected Pagination
		offset   int
	}{
		{"defaults", Pagination{}, Pagination{Page: 1, Limit: 10}, 0},
		{"negative page", Pagination{Page: -3, Limit: 5}, Pagination{Page: 1, Limit: 5}, 0},
		{"limit capped", Pagination{Page: 2, Limit: 500}, Pagination{Page: 2, Limit: 100}, 100},
		{"third page", Pagination{Page: 3, Limit: 20}, Pagination{Page: 3, Limit: 20}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalize())
			assert.Equal(t, tt.offset, tt.in.Offset())
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(25, Pagination{Page: 2, Limit: 10})
	assert.Equal(t, PageMeta{Total: 25, Page: 2, Limit: 10, TotalPages: 3, HasNext: true, HasPrev: true}, meta)

	empty := NewPageMeta(0, Pagination{})
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
