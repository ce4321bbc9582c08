package utils

import "strconv"

// PageSize is the fixed number of rows per listing page.
const PageSize = 10

type SortOption struct {
	SortBy string
	Order  string
	Page   int
}

// BuildSort normalizes untrusted query parameters into safe sort settings.
// Anything outside the allow-lists silently falls back to defaults (first
// allowed field, asc, page 1) — listing endpoints never error on malformed
// query parameters.
func BuildSort(sortBy, order, page string, allowed []string) SortOption {
	opt := SortOption{
		SortBy: allowed[0],
		Order:  "asc",
		Page:   1,
	}

	for _, field := range allowed {
		if sortBy == field {
			opt.SortBy = field
			break
		}
	}

	if order == "asc" || order == "desc" {
		opt.Order = order
	}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		opt.Page = n
	}

	return opt
}

func (o SortOption) Offset() int {
	return (o.Page - 1) * PageSize
}
