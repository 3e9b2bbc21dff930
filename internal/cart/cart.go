package cart

import (
	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item pairs a product snapshot with a quantity of at least 1.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (it Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart is a session's selection, kept in insertion order. Totals are
// derived on every read.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) index(productID string) int {
	for i, it := range c.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments an existing line or appends a new one with quantity 1.
func (c *Cart) AddItem(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, Item{Product: p, Quantity: 1})
}

// RemoveItem is a no-op for absent products.
func (c *Cart) RemoveItem(productID string) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// SetQuantity sets the quantity exactly; below 1 removes the line.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty < 1 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

func (c *Cart) Clear() { c.Items = nil }

func (c Cart) Has(productID string) bool { return c.index(productID) >= 0 }

func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}
