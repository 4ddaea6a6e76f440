package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{
			"zero values get defaults",
			ListQuery{},
			ListQuery{Page: 1, Limit: 12, SortBy: "created_at", Order: "desc"},
		},
		{
			"negative page and limit are clamped",
			ListQuery{Page: -3, Limit: -1},
			ListQuery{Page: 1, Limit: 12, SortBy: "created_at", Order: "desc"},
		},
		{
			"oversized limit is capped",
			ListQuery{Page: 2, Limit: 5000},
			ListQuery{Page: 2, Limit: 100, SortBy: "created_at", Order: "desc"},
		},
		{
			"valid sort fields pass through",
			ListQuery{Page: 1, Limit: 10, SortBy: "price", Order: "asc"},
			ListQuery{Page: 1, Limit: 10, SortBy: "price", Order: "asc"},
		},
		{
			"sql injection attempts fall back to defaults",
			ListQuery{Page: 1, Limit: 10, SortBy: "price; DROP TABLE products", Order: "asc)--"},
			ListQuery{Page: 1, Limit: 10, SortBy: "created_at", Order: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestListQueryOffset(t *testing.T) {
	q := ListQuery{Page: 3, Limit: 12}
	assert.Equal(t, 24, q.Offset())
}
