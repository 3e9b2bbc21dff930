package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscount(t *testing.T) {
	p := Product{Price: 80, OriginalPrice: price(100)}
	d, ok := p.Discount()
	require.True(t, ok)
	require.Equal(t, 20, d)

	d, ok = Product{Price: 180, OriginalPrice: price(450)}.Discount()
	require.True(t, ok)
	require.Equal(t, 60, d)

	_, ok = Product{Price: 80}.Discount()
	require.False(t, ok)

	_, ok = Product{Price: 80, OriginalPrice: price(0)}.Discount()
	require.False(t, ok)
}

func TestNewView(t *testing.T) {
	v := NewView(Product{Price: 80, OriginalPrice: price(100)})
	require.NotNil(t, v.Discount)
	require.Equal(t, 20, *v.Discount)
	require.Equal(t, "$80.00", v.PriceLabel)

	// no badge for a higher "original" price that is actually lower
	v = NewView(Product{Price: 120, OriginalPrice: price(100)})
	require.Nil(t, v.Discount)
}

func TestFallbackProductsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range FallbackProducts() {
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		require.Greater(t, p.Price, 0.0)
		require.Equal(t, p.Category, ParseCategory(string(p.Category)))
		require.Equal(t, p.Condition, ParseCondition(string(p.Condition)))
		if p.OriginalPrice != nil {
			require.GreaterOrEqual(t, *p.OriginalPrice, p.Price)
		}
	}
}
