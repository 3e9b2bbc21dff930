package catalog

import (
	"context"

	"github.com/rs/zerolog"
)

type ListingReader interface {
	ListActive(ctx context.Context) ([]Listing, error)
}

// SellerDirectory resolves display names for seller ids. Missing ids are
// simply absent from the result.
type SellerDirectory interface {
	DisplayNames(ctx context.Context, sellerIDs []string) (map[string]string, error)
}

// Source adapts stored listings into storefront products.
type Source struct {
	Listings ListingReader
	Sellers  SellerDirectory
	Log      zerolog.Logger
}

// FetchActiveProducts keeps the store's order (newest first). A failed
// seller lookup degrades to UnknownSeller labels.
func (s *Source) FetchActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.Listings.ListActive(ctx)
	if err != nil {
		return nil, &FetchError{Op: "active listings", Err: err}
	}
	if len(rows) == 0 {
		return []Product{}, nil
	}

	names, err := s.Sellers.DisplayNames(ctx, distinctSellers(rows))
	if err != nil {
		s.Log.Warn().Err(err).Msg("seller names unavailable")
		names = nil
	}

	out := make([]Product, 0, len(rows))
	for _, l := range rows {
		if !l.Active {
			continue
		}
		out = append(out, ToProduct(l, names))
	}
	return out, nil
}

func distinctSellers(rows []Listing) []string {
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, l := range rows {
		if _, ok := seen[l.SellerID]; ok {
			continue
		}
		seen[l.SellerID] = struct{}{}
		ids = append(ids, l.SellerID)
	}
	return ids
}

// ToProduct normalises a stored listing. names may be nil.
func ToProduct(l Listing, names map[string]string) Product {
	p := Product{
		ID:         l.ID,
		Name:       l.Title,
		Brand:      l.Brand,
		Price:      l.Price,
		Image:      PlaceholderImage,
		Category:   Category(l.Category),
		Condition:  Condition(l.Condition),
		SellerID:   l.SellerID,
		SellerName: UnknownSeller,
		CreatedAt:  l.CreatedAt,
	}
	if l.OriginalPrice != nil && *l.OriginalPrice != 0 {
		v := *l.OriginalPrice
		p.OriginalPrice = &v
	}
	if l.ImageURL != nil && *l.ImageURL != "" {
		p.Image = *l.ImageURL
	}
	if l.Size != nil {
		p.Size = *l.Size
	}
	if l.Description != nil {
		p.Description = *l.Description
	}
	if n := names[l.SellerID]; n != "" {
		p.SellerName = n
	}
	return p
}
