package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/events"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is a placed checkout as recorded from its OrderPlaced event.
type Order struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Items    []Line          `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	TraceID  string          `json:"-"`
	PlacedAt time.Time       `json:"placedAt"`
}

// FromEvent rebuilds an order from its event. Money fields travel as
// fixed-point strings and must parse.
func FromEvent(env events.Envelope, p events.OrderPlacedPayload) (Order, error) {
	o := Order{ID: p.OrderID, Email: p.Email, TraceID: env.TraceID, PlacedAt: env.OccurredAt}
	if o.ID == "" {
		return Order{}, errors.New("order id missing")
	}
	var err error
	if o.Subtotal, err = money("subtotal", p.Subtotal); err != nil {
		return Order{}, err
	}
	if o.Shipping, err = money("shipping", p.Shipping); err != nil {
		return Order{}, err
	}
	if o.Total, err = money("total", p.Total); err != nil {
		return Order{}, err
	}

	o.Items = make([]Line, 0, len(p.Items))
	for i, it := range p.Items {
		if it.Qty <= 0 {
			return Order{}, fmt.Errorf("line %d: invalid qty %d", i, it.Qty)
		}
		l := Line{ProductID: it.ProductID, Name: it.Name, Qty: it.Qty}
		if l.UnitPrice, err = money("unit_price", it.UnitPrice); err != nil {
			return Order{}, fmt.Errorf("line %d: %w", i, err)
		}
		if l.LineTotal, err = money("line_total", it.LineTotal); err != nil {
			return Order{}, fmt.Errorf("line %d: %w", i, err)
		}
		o.Items = append(o.Items, l)
	}
	if !o.Subtotal.Add(o.Shipping).Equal(o.Total) {
		return Order{}, fmt.Errorf("total %s != subtotal %s + shipping %s", o.Total, o.Subtotal, o.Shipping)
	}
	return o, nil
}

func money(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
