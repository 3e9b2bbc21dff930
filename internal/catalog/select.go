package catalog

import (
	"cmp"
	"slices"
)

// SelectCatalog is the storefront pipeline: pick a source, filter by
// category and condition, then sort. It never mutates its inputs.
//
// Source selection is all-or-nothing: a non-empty remote list is used
// exclusively, otherwise the whole fallback list is used.
func SelectCatalog(remote, fallback []Product, category Category, condition Condition, sortKey SortKey) []Product {
	src := remote
	if len(src) == 0 {
		src = fallback
	}

	out := make([]Product, 0, len(src))
	for _, p := range src {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if condition != ConditionAll && p.Condition != condition {
			continue
		}
		out = append(out, p)
	}

	switch sortKey {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	default:
		slices.SortStableFunc(out, func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	return out
}

// Related returns up to limit products sharing p's category, excluding p.
func Related(products []Product, p Product, limit int) []Product {
	if limit <= 0 {
		return nil
	}
	out := make([]Product, 0, limit)
	for _, q := range products {
		if len(out) == limit {
			break
		}
		if q.Category == p.Category && q.ID != p.ID {
			out = append(out, q)
		}
	}
	return out
}

// Find looks a product up by id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
