package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// View is a Product as rendered by the storefront.
type View struct {
	Product
	Discount   *int   `json:"discount,omitempty"`
	PriceLabel string `json:"priceLabel"`
}

func NewView(p Product) View {
	v := View{Product: p, PriceLabel: PriceLabel(p.Price)}
	if d, ok := p.Discount(); ok && d > 0 {
		v.Discount = &d
	}
	return v
}

func Views(ps []Product) []View {
	out := make([]View, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewView(p))
	}
	return out
}

func PriceLabel(v float64) string { return printer.Sprintf("$%.2f", v) }
