package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeFetcher struct {
	products []Product
	err      error
}

func (f *fakeFetcher) FetchActiveProducts(context.Context) ([]Product, error) {
	return f.products, f.err
}

type memSnapshots struct {
	stored []Product
	ok     bool
	saves  int
}

func (m *memSnapshots) Save(_ context.Context, ps []Product) error {
	m.stored, m.ok = ps, true
	m.saves++
	return nil
}

func (m *memSnapshots) Load(context.Context) ([]Product, bool, error) { return m.stored, m.ok, nil }

type ServiceSuite struct {
	suite.Suite
	fetch *fakeFetcher
	cache *memSnapshots
	svc   *Service
}

func TestServiceSuite(t *testing.T) { suite.Run(t, new(ServiceSuite)) }

func (s *ServiceSuite) SetupTest() {
	s.fetch = &fakeFetcher{}
	s.cache = &memSnapshots{}
	s.svc = &Service{Remote: s.fetch, Cache: s.cache, Fallback: FallbackProducts(), Log: zerolog.Nop()}
}

func (s *ServiceSuite) TestBrowseUsesRemoteAndSnapshotsIt() {
	s.fetch.products = sample()
	res := s.svc.Browse(context.Background(), Query{Category: CategoryShoes, Condition: ConditionAll, Sort: SortPriceLow})

	require.Equal(s.T(), SourceRemote, res.Source)
	require.Empty(s.T(), res.Notice)
	require.Equal(s.T(), []string{"a", "e", "c"}, ids(res.Items))
	require.Equal(s.T(), 1, s.cache.saves)
}

func (s *ServiceSuite) TestBrowseEmptyRemoteUsesFallback() {
	res := s.svc.Browse(context.Background(), Query{Category: CategoryAll, Condition: ConditionAll, Sort: SortNewest})
	require.Equal(s.T(), SourceFallback, res.Source)
	require.Len(s.T(), res.Items, len(FallbackProducts()))
	require.Zero(s.T(), s.cache.saves)
}

func (s *ServiceSuite) TestBrowseFetchErrorUsesSnapshot() {
	s.cache.stored, s.cache.ok = sample()[:1], true
	s.fetch.err = &FetchError{Op: "active listings", Err: errors.New("timeout")}

	res := s.svc.Browse(context.Background(), Query{Category: CategoryAll, Condition: ConditionAll, Sort: SortNewest})
	require.Equal(s.T(), SourceRemote, res.Source)
	require.NotEmpty(s.T(), res.Notice)
	require.Equal(s.T(), []string{"a"}, ids(res.Items))
}

func (s *ServiceSuite) TestBrowseFetchErrorWithoutSnapshotUsesFallback() {
	s.fetch.err = errors.New("boom")
	res := s.svc.Browse(context.Background(), Query{Category: CategoryAll, Condition: ConditionAll, Sort: SortNewest})
	require.Equal(s.T(), SourceFallback, res.Source)
	require.NotEmpty(s.T(), res.Notice)
}

func (s *ServiceSuite) TestProductWithRelated() {
	s.fetch.products = sample()
	p, related, _, err := s.svc.Product(context.Background(), "a")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "a", p.ID)
	require.Equal(s.T(), []string{"c", "e"}, ids(related))
}

func (s *ServiceSuite) TestProductFallbackIDWhileRemoteExists() {
	s.fetch.products = sample()
	p, related, _, err := s.svc.Product(context.Background(), "demo-3")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Chelsea Boots", p.Name)
	require.Equal(s.T(), []string{"demo-4"}, ids(related))
}

func (s *ServiceSuite) TestProductNotFound() {
	_, _, _, err := s.svc.Product(context.Background(), "missing")
	require.ErrorIs(s.T(), err, ErrNotFound)
}
