package kafka

import (
	"testing"

	"github.com/ariefcatur/go-marketplace/internal/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type capture struct {
	key     []byte
	value   []byte
	headers []kafka.Header
}

func (c *capture) Publish(key, value []byte, headers ...kafka.Header) {
	c.key, c.value, c.headers = key, value, headers
}

func TestPublishEnvelopeRoundTrip(t *testing.T) {
	c := &capture{}
	env := NewEnvelope(events.EventListingChanged, "market-api", "req-1", "p-1",
		events.ListingChangedPayload{ProductID: "p-1", SellerID: "s-1", Change: events.ChangeCreated})
	PublishEnvelope(c, "p-1", env)

	require.Equal(t, []byte("p-1"), c.key)
	require.Len(t, c.headers, 2)
	require.Equal(t, "x-event-type", c.headers[0].Key)
	require.Equal(t, events.EventListingChanged, string(c.headers[0].Value))
	require.Equal(t, "1", string(c.headers[1].Value))

	got, err := UnmarshalEnvelope(c.value)
	require.NoError(t, err)
	require.Equal(t, env.EventID, got.EventID)
	require.Equal(t, "req-1", got.TraceID)

	p, err := UnwrapPayload[events.ListingChangedPayload](got.Payload)
	require.NoError(t, err)
	require.Equal(t, events.ChangeCreated, p.Change)
	require.Equal(t, "s-1", p.SellerID)
}

func TestUnmarshalEnvelopeRejectsGarbage(t *testing.T) {
	_, err := UnmarshalEnvelope([]byte("{not json"))
	require.Error(t, err)
}
