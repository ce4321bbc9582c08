package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allowed = []string{"title", "createdAt", "updatedAt"}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		page   string
		want   SortOption
	}{
		{
			name: "all empty falls back to defaults",
			want: SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
		{
			name:   "valid values pass through unchanged",
			sortBy: "updatedAt",
			order:  "desc",
			page:   "3",
			want:   SortOption{SortBy: "updatedAt", Order: "desc", Page: 3},
		},
		{
			name:   "unknown sort field falls back",
			sortBy: "password",
			order:  "asc",
			page:   "2",
			want:   SortOption{SortBy: "title", Order: "asc", Page: 2},
		},
		{
			name:  "unknown order falls back",
			order: "DESC",
			want:  SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
		{
			name: "non-numeric page falls back",
			page: "abc",
			want: SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
		{
			name: "zero page falls back",
			page: "0",
			want: SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
		{
			name: "negative page falls back",
			page: "-4",
			want: SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
		{
			name:   "sql injection attempt degrades silently",
			sortBy: "title; DROP TABLE decks",
			order:  "asc'--",
			page:   "1e9",
			want:   SortOption{SortBy: "title", Order: "asc", Page: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSort(tt.sortBy, tt.order, tt.page, allowed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortOptionOffset(t *testing.T) {
	assert.Equal(t, 0, SortOption{Page: 1}.Offset())
	assert.Equal(t, PageSize, SortOption{Page: 2}.Offset())
	assert.Equal(t, 4*PageSize, SortOption{Page: 5}.Offset())
}
