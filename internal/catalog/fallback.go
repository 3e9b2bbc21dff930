package catalog

import "time"

func price(v float64) *float64 { return &v }

func day(d int) time.Time { return time.Date(2024, time.January, d, 10, 0, 0, 0, time.UTC) }

// FallbackProducts is the static showcase used when the store has no active listings.
func FallbackProducts() []Product {
	return []Product{
		{
			ID: "demo-1", Name: "Vintage Leather Jacket", Brand: "AllSaints",
			Price: 180, OriginalPrice: price(450), Image: "/images/demo/leather-jacket.jpg",
			Category: CategoryClothing, Size: "M", Condition: ConditionLikeNew,
			Description: "Washed lambskin biker jacket, worn a handful of times.",
			SellerID:    "demo-seller-1", SellerName: "Emma's Closet", CreatedAt: day(15),
		},
		{
			ID: "demo-2", Name: "Classic Trench Coat", Brand: "Burberry",
			Price: 890, OriginalPrice: price(1990), Image: "/images/demo/trench.jpg",
			Category: CategoryClothing, Size: "S", Condition: ConditionGood,
			Description: "Honey gabardine trench with check lining.",
			SellerID:    "demo-seller-2", SellerName: "Luxe Resale", CreatedAt: day(14),
		},
		{
			ID: "demo-3", Name: "Chelsea Boots", Brand: "Dr. Martens",
			Price: 95, OriginalPrice: price(170), Image: "/images/demo/chelsea.jpg",
			Category: CategoryShoes, Size: "39", Condition: ConditionGood,
			Description: "Smooth black leather, resoled last winter.",
			SellerID:    "demo-seller-1", SellerName: "Emma's Closet", CreatedAt: day(12),
		},
		{
			ID: "demo-4", Name: "Canvas Sneakers", Brand: "Common Projects",
			Price: 160, Image: "/images/demo/sneakers.jpg",
			Category: CategoryShoes, Size: "42", Condition: ConditionNew,
			Description: "Unworn, still boxed.",
			SellerID:    "demo-seller-3", SellerName: "Sole Mates", CreatedAt: day(11),
		},
		{
			ID: "demo-5", Name: "Quilted Shoulder Bag", Brand: "Chanel",
			Price: 3200, OriginalPrice: price(5800), Image: "/images/demo/quilted-bag.jpg",
			Category: CategoryBags, Condition: ConditionLikeNew,
			Description: "Lambskin flap bag with gold hardware and dust bag.",
			SellerID:    "demo-seller-2", SellerName: "Luxe Resale", CreatedAt: day(10),
		},
		{
			ID: "demo-6", Name: "Everyday Tote", Brand: "Longchamp",
			Price: 70, OriginalPrice: price(145), Image: "/images/demo/tote.jpg",
			Category: CategoryBags, Condition: ConditionFair,
			Description: "Well loved nylon tote, light wear on the handles.",
			SellerID:    "demo-seller-4", SellerName: "Second Story", CreatedAt: day(8),
		},
		{
			ID: "demo-7", Name: "Silk Scarf", Brand: "Hermès",
			Price: 240, OriginalPrice: price(450), Image: "/images/demo/scarf.jpg",
			Category: CategoryAccessories, Condition: ConditionGood,
			Description: "90cm twill carré, hand-rolled edges.",
			SellerID:    "demo-seller-2", SellerName: "Luxe Resale", CreatedAt: day(6),
		},
		{
			ID: "demo-8", Name: "Aviator Sunglasses", Brand: "Ray-Ban",
			Price: 80, OriginalPrice: price(100), Image: "/images/demo/aviators.jpg",
			Category: CategoryAccessories, Condition: ConditionNew,
			Description: "Gold frame, green G-15 lenses, with case.",
			SellerID:    "demo-seller-3", SellerName: "Sole Mates", CreatedAt: day(3),
		},
	}
}
