package events

const (
	TopicListingChanged = "market.listing.changed"
	TopicOrderPlaced    = "market.order.placed"
)

// Listing events are keyed by product id so one listing's history stays ordered.
func PartitionKey(id string) []byte { return []byte(id) }
