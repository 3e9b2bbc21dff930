package redisx

import "time"

const (
	// Session token -> user id: session:{token}
	KeySession = "session:%s"

	// Cart per browser session: cart:{sid} -> JSON cart
	KeyCart = "cart:%s"

	// Last good normalised catalog read: catalog:active -> JSON []Product
	KeyCatalogActive = "catalog:active"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart            = 7 * 24 * time.Hour
	TTLCatalogSnapshot = 10 * time.Minute
	TTLDedup           = 48 * time.Hour
)
