package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-marketplace/internal/events"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/ariefcatur/go-marketplace/internal/validate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// Details is the shipping form submitted at checkout.
type Details struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Address   string `json:"address" validate:"required,max=300"`
	City      string `json:"city" validate:"required,max=100"`
	Zip       string `json:"zip" validate:"required,max=20"`
}

var detailMessages = validate.Messages{
	"email":     "Please enter a valid email address",
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"address":   "Address is required",
	"city":      "City is required",
	"zip":       "ZIP code is required",
}

func (d *Details) Validate() error {
	for _, f := range []*string{&d.Email, &d.FirstName, &d.LastName, &d.Address, &d.City, &d.Zip} {
		*f = strings.TrimSpace(*f)
	}
	return validate.Struct(d, detailMessages).OrNil()
}

type Receipt struct {
	OrderID string  `json:"orderId"`
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// Checkout simulates order placement: no payment is taken.
type Checkout struct {
	Carts    Sessions
	Pricing  Pricing
	Events   kafkax.Publisher
	Producer string
	Log      zerolog.Logger
}

// PlaceOrder snapshots and clears the cart in one step, then announces the order.
func (c *Checkout) PlaceOrder(ctx context.Context, sid, traceID string, d Details) (Receipt, error) {
	if err := d.Validate(); err != nil {
		return Receipt{}, err
	}

	var snapshot Cart
	_, err := c.Carts.Update(ctx, sid, func(cur *Cart) error {
		if len(cur.Items) == 0 {
			return ErrEmptyCart
		}
		snapshot = Cart{Items: append([]Item(nil), cur.Items...)}
		cur.Clear()
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{OrderID: uuid.NewString(), Items: snapshot.Items, Summary: c.Pricing.Summarize(snapshot)}
	c.announce(r, d.Email, traceID)
	c.Log.Info().Str("order_id", r.OrderID).Int("items", r.Summary.TotalItems).
		Str("total", r.Summary.Total.StringFixed(2)).Msg("order placed")
	return r, nil
}

func (c *Checkout) announce(r Receipt, email, traceID string) {
	if c.Events == nil {
		return
	}
	lines := make([]events.OrderLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, events.OrderLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Qty:       it.Quantity,
			UnitPrice: decimal.NewFromFloat(it.Product.Price).StringFixed(2),
			LineTotal: it.LineTotal().StringFixed(2),
		})
	}
	env := kafkax.NewEnvelope(events.EventOrderPlaced, c.Producer, traceID, r.OrderID, events.OrderPlacedPayload{
		OrderID:  r.OrderID,
		Email:    email,
		Items:    lines,
		Subtotal: r.Summary.Subtotal.StringFixed(2),
		Shipping: r.Summary.Shipping.StringFixed(2),
		Total:    r.Summary.Total.StringFixed(2),
	})
	kafkax.PublishEnvelope(c.Events, r.OrderID, env)
}
