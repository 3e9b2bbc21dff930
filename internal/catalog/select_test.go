package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(h int) time.Time { return time.Date(2025, 3, 1, h, 0, 0, 0, time.UTC) }

func sample() []Product {
	return []Product{
		{ID: "a", Category: CategoryShoes, Condition: ConditionNew, Price: 50, CreatedAt: at(1)},
		{ID: "b", Category: CategoryBags, Condition: ConditionGood, Price: 300, CreatedAt: at(5)},
		{ID: "c", Category: CategoryShoes, Condition: ConditionGood, Price: 120, CreatedAt: at(3)},
		{ID: "d", Category: CategoryClothing, Condition: ConditionFair, Price: 120, CreatedAt: at(4)},
		{ID: "e", Category: CategoryShoes, Condition: ConditionNew, Price: 50, CreatedAt: at(2)},
	}
}

func ids(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSelectCatalogFiltersAreANDComposed(t *testing.T) {
	cats := []Category{CategoryAll, CategoryClothing, CategoryShoes, CategoryBags, CategoryAccessories}
	conds := []Condition{ConditionAll, ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair}
	in := sample()
	for _, c := range cats {
		for _, k := range conds {
			out := SelectCatalog(in, nil, c, k, SortNewest)
			for _, p := range out {
				_, ok := Find(in, p.ID)
				require.True(t, ok)
				require.True(t, c == CategoryAll || p.Category == c, "category %s", c)
				require.True(t, k == ConditionAll || p.Condition == k, "condition %s", k)
			}
		}
	}
	require.Equal(t, []string{"c"}, ids(SelectCatalog(in, nil, CategoryShoes, ConditionGood, SortNewest)))
	require.Len(t, SelectCatalog(in, nil, CategoryAll, ConditionAll, SortNewest), 5)
}

func TestSelectCatalogCategoryMatchIsCaseSensitive(t *testing.T) {
	out := SelectCatalog(sample(), nil, Category("Shoes"), ConditionAll, SortNewest)
	require.Empty(t, out)
}

func TestSelectCatalogIsSourceExclusive(t *testing.T) {
	remote := sample()[:2]
	fallback := FallbackProducts()

	out := SelectCatalog(remote, fallback, CategoryAll, ConditionAll, SortNewest)
	require.ElementsMatch(t, []string{"a", "b"}, ids(out))

	// a filter that empties the remote selection must not pull in fallback items
	out = SelectCatalog(remote, fallback, CategoryAccessories, ConditionAll, SortNewest)
	require.Empty(t, out)

	out = SelectCatalog(nil, fallback, CategoryAll, ConditionAll, SortNewest)
	require.Len(t, out, len(fallback))
}

func TestSelectCatalogSortOrders(t *testing.T) {
	in := sample()

	low := SelectCatalog(in, nil, CategoryAll, ConditionAll, SortPriceLow)
	for i := 1; i < len(low); i++ {
		require.LessOrEqual(t, low[i-1].Price, low[i].Price)
	}
	high := SelectCatalog(in, nil, CategoryAll, ConditionAll, SortPriceHigh)
	for i := 1; i < len(high); i++ {
		require.GreaterOrEqual(t, high[i-1].Price, high[i].Price)
	}
	newest := SelectCatalog(in, nil, CategoryAll, ConditionAll, SortNewest)
	for i := 1; i < len(newest); i++ {
		require.False(t, newest[i].CreatedAt.After(newest[i-1].CreatedAt))
	}
	require.Equal(t, []string{"b", "d", "c", "e", "a"}, ids(newest))
}

func TestSelectCatalogSortIsStable(t *testing.T) {
	in := sample()
	// a and e share price 50, c and d share 120: input order is kept
	require.Equal(t, []string{"a", "e", "c", "d", "b"}, ids(SelectCatalog(in, nil, CategoryAll, ConditionAll, SortPriceLow)))
	require.Equal(t, []string{"b", "c", "d", "a", "e"}, ids(SelectCatalog(in, nil, CategoryAll, ConditionAll, SortPriceHigh)))
}

func TestSelectCatalogUnknownSortFallsBackToNewest(t *testing.T) {
	in := sample()
	require.Equal(t,
		ids(SelectCatalog(in, nil, CategoryAll, ConditionAll, SortNewest)),
		ids(SelectCatalog(in, nil, CategoryAll, ConditionAll, SortKey("popular"))))
}

func TestSelectCatalogDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := ids(in)
	_ = SelectCatalog(in, nil, CategoryAll, ConditionAll, SortPriceHigh)
	require.Equal(t, before, ids(in))
}

func TestRelated(t *testing.T) {
	in := sample()
	p, _ := Find(in, "a")
	require.Equal(t, []string{"c", "e"}, ids(Related(in, p, 4)))
	require.Equal(t, []string{"c"}, ids(Related(in, p, 1)))
	require.Empty(t, Related(in, p, 0))
	require.NotPanics(t, func() { require.Empty(t, Related(in, p, -1)) })
}

func TestParseSelectors(t *testing.T) {
	require.Equal(t, CategoryBags, ParseCategory("bags"))
	require.Equal(t, CategoryAll, ParseCategory("BAGS"))
	require.Equal(t, CategoryAll, ParseCategory(""))
	require.Equal(t, ConditionLikeNew, ParseCondition("like-new"))
	require.Equal(t, ConditionAll, ParseCondition("mint"))
	require.Equal(t, SortPriceHigh, ParseSortKey("price-high"))
	require.Equal(t, SortNewest, ParseSortKey("popular"))
}
