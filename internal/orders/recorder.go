package orders

import (
	"context"

	"github.com/ariefcatur/go-marketplace/internal/events"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type Store interface {
	Record(ctx context.Context, o Order) (bool, error)
}

// Recorder persists OrderPlaced events; it is installed as a consumer handler.
type Recorder struct {
	Orders Store
	Log    zerolog.Logger
}

func (r *Recorder) HandleOrderPlaced(ctx context.Context, m kafka.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		r.Log.Error().Err(err).Int64("offset", m.Offset).Msg("skip undecodable message")
		return nil
	}
	if env.EventType != events.EventOrderPlaced {
		return nil
	}
	p, err := kafkax.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
	if err != nil {
		r.Log.Error().Err(err).Str("event_id", env.EventID).Msg("skip undecodable payload")
		return nil
	}
	o, err := FromEvent(env, p)
	if err != nil {
		r.Log.Error().Err(err).Str("event_id", env.EventID).Msg("skip invalid order")
		return nil
	}

	existed, err := r.Orders.Record(ctx, o)
	if err != nil {
		return err
	}
	r.Log.Info().
		Str("order_id", o.ID).
		Str("trace_id", o.TraceID).
		Int("lines", len(o.Items)).
		Str("total", o.Total.StringFixed(2)).
		Bool("replay", existed).
		Msg("order recorded")
	return nil
}
