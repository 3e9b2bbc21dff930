package events

import (
	"encoding/json"
	"time"
)

const (
	EventListingChanged = "ListingChanged"
	EventOrderPlaced    = "OrderPlaced"
)

// Listing change kinds carried in ListingChangedPayload.Change.
const (
	ChangeCreated     = "created"
	ChangeUpdated     = "updated"
	ChangeDeleted     = "deleted"
	ChangeActivated   = "activated"
	ChangeDeactivated = "deactivated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ListingChangedPayload struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	ActorID   string `json:"actor_id"`
	Change    string `json:"change"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderPlacedPayload struct {
	OrderID  string      `json:"order_id"`
	Email    string      `json:"email"`
	Items    []OrderLine `json:"items"`
	Subtotal string      `json:"subtotal"`
	Shipping string      `json:"shipping"`
	Total    string      `json:"total"`
}
