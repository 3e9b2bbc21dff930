// Package indexer keeps the cached storefront catalog in step with listing
// changes announced on Kafka.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/events"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Dedup reports whether an event id is seen for the first time.
type Dedup interface {
	MarkOnce(ctx context.Context, eventID string) (bool, error)
}

type RedisDedup struct {
	RDB     redis.Cmdable
	Service string
	TTL     time.Duration
}

func (d *RedisDedup) MarkOnce(ctx context.Context, eventID string) (bool, error) {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = redisx.TTLDedup
	}
	return redisx.MarkOnce(ctx, d.RDB, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), ttl)
}

type Handler struct {
	Snapshots Invalidator
	Dedup     Dedup
	Log       zerolog.Logger
}

// HandleListingChanged drops the catalog snapshot so the next storefront read
// goes to the store. Undecodable messages are logged and committed.
func (h *Handler) HandleListingChanged(ctx context.Context, m kafka.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		h.Log.Error().Err(err).Int64("offset", m.Offset).Msg("skip undecodable message")
		return nil
	}
	if env.EventType != events.EventListingChanged {
		return nil
	}
	p, err := kafkax.UnwrapPayload[events.ListingChangedPayload](env.Payload)
	if err != nil {
		h.Log.Error().Err(err).Str("event_id", env.EventID).Msg("skip undecodable payload")
		return nil
	}

	// invalidation is idempotent, so it runs before the dedup mark
	if err := h.Snapshots.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog snapshot: %w", err)
	}

	first, err := h.Dedup.MarkOnce(ctx, env.EventID)
	if err != nil {
		h.Log.Warn().Err(err).Str("event_id", env.EventID).Msg("dedup mark")
	} else if !first {
		h.Log.Debug().Str("event_id", env.EventID).Msg("duplicate event")
		return nil
	}

	h.Log.Info().
		Str("event_id", env.EventID).
		Str("trace_id", env.TraceID).
		Str("product_id", p.ProductID).
		Str("seller_id", p.SellerID).
		Str("actor_id", p.ActorID).
		Str("change", p.Change).
		Msg("listing changed")
	return nil
}
