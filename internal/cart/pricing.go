package cart

import "github.com/shopspring/decimal"

type Pricing struct {
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func DefaultPricing() Pricing { return NewPricing(15, 200) }

func NewPricing(flat, threshold int64) Pricing {
	return Pricing{
		FlatShipping:          decimal.NewFromInt(flat),
		FreeShippingThreshold: decimal.NewFromInt(threshold),
	}
}

type Summary struct {
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
}

// Shipping is free at or above the threshold and for an empty cart.
func (p Pricing) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShipping
}

func (p Pricing) Summarize(c Cart) Summary {
	sub := c.TotalPrice()
	ship := p.Shipping(sub)
	return Summary{
		TotalItems: c.TotalItems(),
		Subtotal:   sub,
		Shipping:   ship,
		Total:      sub.Add(ship),
	}
}
