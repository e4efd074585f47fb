package domain

import (
	"slices"
	"strings"
)

// ProductFilter describes one live product query. Zero-valued dimensions
// mean "no constraint": an empty Query matches everything, nil id sets skip
// membership checks, nil price bounds are unbounded.
type ProductFilter struct {
	Query       string
	CategoryIDs []string
	BrandIDs    []string
	MinPrice    *float64
	MaxPrice    *float64
}

// CategoryFilter is the single-category convenience form kept for older
// call sites.
func CategoryFilter(categoryID string) ProductFilter {
	return ProductFilter{CategoryIDs: []string{categoryID}}
}

func (f ProductFilter) Matches(p Product) bool {
	if !f.matchesQuery(p) {
		return false
	}

	if len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, p.CategoryID) {
		return false
	}

	if len(f.BrandIDs) > 0 && !slices.Contains(f.BrandIDs, p.BrandID) {
		return false
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}

	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}

	return true
}

// matchesQuery checks the normalized name first; keywords are only consulted
// when the name does not match.
func (f ProductFilter) matchesQuery(p Product) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}

	if strings.Contains(p.NormalizedName, query) {
		return true
	}

	for _, keyword := range p.Keywords {
		if strings.Contains(strings.ToLower(keyword), query) {
			return true
		}
	}

	return false
}
