package catalog

import (
	"math"
	"time"
)

type Category string

const (
	CategoryAll         Category = "all"
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryBags        Category = "bags"
	CategoryAccessories Category = "accessories"
)

type Condition string

const (
	ConditionAll     Condition = "all"
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

const (
	UnknownSeller    = "Unknown Seller"
	PlaceholderImage = "/placeholder.svg"
)

// Option is a selector value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	CategoryOptions = []Option{
		{"all", "All"},
		{"clothing", "Clothing"},
		{"shoes", "Shoes"},
		{"bags", "Bags"},
		{"accessories", "Accessories"},
	}
	ConditionOptions = []Option{
		{"all", "All Conditions"},
		{"new", "New"},
		{"like-new", "Like New"},
		{"good", "Good"},
		{"fair", "Fair"},
	}
	SortOptions = []Option{
		{"newest", "Newest"},
		{"price-low", "Price: Low to High"},
		{"price-high", "Price: High to Low"},
	}
)

// Product is the canonical storefront shape.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Image         string    `json:"image"`
	Category      Category  `json:"category"`
	Size          string    `json:"size,omitempty"`
	Condition     Condition `json:"condition"`
	Description   string    `json:"description"`
	SellerID      string    `json:"sellerId"`
	SellerName    string    `json:"sellerName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Discount is round((1 - price/originalPrice) * 100), defined only when
// originalPrice is present and positive.
func (p Product) Discount() (int, bool) {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 {
		return 0, false
	}
	return int(math.Round((1 - p.Price / *p.OriginalPrice) * 100)), true
}

// Listing is a product row as its seller manages it.
type Listing struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"sellerId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      string    `json:"category"`
	Size          *string   `json:"size"`
	Brand         string    `json:"brand"`
	Condition     string    `json:"condition"`
	ImageURL      *string   `json:"imageUrl"`
	Active        bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryClothing, CategoryShoes, CategoryBags, CategoryAccessories:
		return c
	}
	return CategoryAll
}

func ParseCondition(s string) Condition {
	switch c := Condition(s); c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return c
	}
	return ConditionAll
}

// ParseSortKey maps unknown keys to newest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh:
		return k
	}
	return SortNewest
}
