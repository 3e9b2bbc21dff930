package orders

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-marketplace/internal/events"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	orders map[string]Order
	err    error
}

func (m *memStore) Record(_ context.Context, o Order) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.orders[o.ID]; ok {
		return true, nil
	}
	m.orders[o.ID] = o
	return false, nil
}

func placed() events.OrderPlacedPayload {
	return events.OrderPlacedPayload{
		OrderID: "0b6c5c0e-8a0e-4bfb-9c55-3f3f3f3f3f3f",
		Email:   "bea@example.com",
		Items: []events.OrderLine{
			{ProductID: "demo-3", Name: "Chelsea Boots", Qty: 1, UnitPrice: "95.00", LineTotal: "95.00"},
			{ProductID: "demo-6", Name: "Everyday Tote", Qty: 1, UnitPrice: "70.00", LineTotal: "70.00"},
		},
		Subtotal: "165.00",
		Shipping: "15.00",
		Total:    "180.00",
	}
}

func message(p events.OrderPlacedPayload) kafka.Message {
	env := kafkax.NewEnvelope(events.EventOrderPlaced, "market-api", "req-1", p.OrderID, p)
	return kafka.Message{Value: kafkax.MustMarshal(env)}
}

func TestFromEvent(t *testing.T) {
	env := kafkax.NewEnvelope(events.EventOrderPlaced, "market-api", "req-1", "o", placed())
	o, err := FromEvent(env, placed())
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	require.Equal(t, "180", o.Total.String())
	require.Equal(t, "req-1", o.TraceID)
	require.Equal(t, env.OccurredAt, o.PlacedAt)
}

func TestFromEventRejectsBadMoney(t *testing.T) {
	env := kafkax.NewEnvelope(events.EventOrderPlaced, "market-api", "", "o", nil)

	p := placed()
	p.Total = "lots"
	_, err := FromEvent(env, p)
	require.ErrorContains(t, err, "total")

	p = placed()
	p.Total = "181.00"
	_, err = FromEvent(env, p)
	require.Error(t, err)

	p = placed()
	p.Items[1].Qty = 0
	_, err = FromEvent(env, p)
	require.ErrorContains(t, err, "line 1")
}

func TestRecorderStoresOnce(t *testing.T) {
	var buf bytes.Buffer
	store := &memStore{orders: map[string]Order{}}
	r := &Recorder{Orders: store, Log: zerolog.New(&buf)}

	m := message(placed())
	require.NoError(t, r.HandleOrderPlaced(context.Background(), m))
	require.NoError(t, r.HandleOrderPlaced(context.Background(), m))
	require.Len(t, store.orders, 1)
	require.Contains(t, buf.String(), `"replay":true`)
}

func TestRecorderReturnsStoreError(t *testing.T) {
	r := &Recorder{Orders: &memStore{err: errors.New("db down")}, Log: zerolog.Nop()}
	require.Error(t, r.HandleOrderPlaced(context.Background(), message(placed())))
}

func TestRecorderSkipsInvalidOrders(t *testing.T) {
	store := &memStore{orders: map[string]Order{}}
	r := &Recorder{Orders: store, Log: zerolog.Nop()}

	p := placed()
	p.OrderID = ""
	require.NoError(t, r.HandleOrderPlaced(context.Background(), message(p)))
	require.NoError(t, r.HandleOrderPlaced(context.Background(), kafka.Message{Value: []byte("nope")}))
	require.Empty(t, store.orders)
}
