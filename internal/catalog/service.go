package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"

	noticeUnavailable = "Live listings are temporarily unavailable; showing what we have."
)

type ProductFetcher interface {
	FetchActiveProducts(ctx context.Context) ([]Product, error)
}

type Snapshots interface {
	Save(ctx context.Context, products []Product) error
	Load(ctx context.Context) ([]Product, bool, error)
}

type Query struct {
	Category  Category
	Condition Condition
	Sort      SortKey
}

type Result struct {
	Items  []Product
	Source string
	Notice string
}

// Service serves the storefront views. Cache may be nil.
type Service struct {
	Remote   ProductFetcher
	Cache    Snapshots
	Fallback []Product
	Log      zerolog.Logger
}

func (s *Service) Browse(ctx context.Context, q Query) Result {
	remote, notice := s.remote(ctx)
	return Result{
		Items:  SelectCatalog(remote, s.Fallback, q.Category, q.Condition, q.Sort),
		Source: sourceOf(remote),
		Notice: notice,
	}
}

// Product returns one product and up to four related ones from the same source.
func (s *Service) Product(ctx context.Context, id string) (Product, []Product, string, error) {
	remote, notice := s.remote(ctx)
	all := SelectCatalog(remote, s.Fallback, CategoryAll, ConditionAll, SortNewest)
	p, ok := Find(all, id)
	if !ok && len(remote) > 0 {
		// fallback ids still resolve when remote listings exist
		if p, ok = Find(s.Fallback, id); ok {
			all = SelectCatalog(nil, s.Fallback, CategoryAll, ConditionAll, SortNewest)
		}
	}
	if !ok {
		return Product{}, nil, notice, ErrNotFound
	}
	return p, Related(all, p, 4), notice, nil
}

// remote reads live listings, falling back to the cached snapshot on a
// FetchError. An empty result means the fallback set will be used.
func (s *Service) remote(ctx context.Context) ([]Product, string) {
	products, err := s.Remote.FetchActiveProducts(ctx)
	if err == nil {
		if s.Cache != nil && len(products) > 0 {
			if err := s.Cache.Save(ctx, products); err != nil {
				s.Log.Warn().Err(err).Msg("save catalog snapshot")
			}
		}
		return products, ""
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		fe = &FetchError{Op: "catalog", Err: err}
	}
	s.Log.Warn().Err(fe).Msg("catalog fetch failed")

	if s.Cache != nil {
		cached, ok, cerr := s.Cache.Load(ctx)
		if cerr != nil {
			s.Log.Warn().Err(cerr).Msg("load catalog snapshot")
		}
		if ok {
			return cached, noticeUnavailable
		}
	}
	return nil, noticeUnavailable
}

func sourceOf(remote []Product) string {
	if len(remote) > 0 {
		return SourceRemote
	}
	return SourceFallback
}
