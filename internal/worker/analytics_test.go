package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvendas/go-sales-api/internal/sales"
)

type memCounters struct {
	mu     sync.Mutex
	seen   map[string]bool
	counts map[string]int64
}

func newMemCounters() *memCounters {
	return &memCounters{seen: map[string]bool{}, counts: map[string]int64{}}
}

func (m *memCounters) MarkSeen(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memCounters) Add(_ context.Context, key string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key] += delta
	return nil
}

func envelope(t *testing.T, eventID, eventType string, occurred time.Time, payload any) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	b, err := json.Marshal(sales.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   occurred,
		Producer:     "test",
		Payload:      raw,
	})
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestAnalytics_CountsOrdersPerDay(t *testing.T) {
	counters := newMemCounters()
	a := &Analytics{Counters: counters, ServiceName: "test-analytics"}

	day := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	m := envelope(t, "ev-1", sales.EventOrderCreated, day, sales.OrderCreatedPayload{
		OrderID: "o1", CustomerID: "c1", TotalCents: 3000, CreatedAt: day,
	})
	require.NoError(t, a.HandleEvent(context.Background(), m))

	assert.Equal(t, int64(1), counters.counts["stats:orders:2025-03-10"])
}

func TestAnalytics_DedupsByEventID(t *testing.T) {
	counters := newMemCounters()
	a := &Analytics{Counters: counters, ServiceName: "test-analytics"}

	day := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	m := envelope(t, "ev-1", sales.EventOrderCreated, day, sales.OrderCreatedPayload{
		OrderID: "o1", CreatedAt: day,
	})
	require.NoError(t, a.HandleEvent(context.Background(), m))
	require.NoError(t, a.HandleEvent(context.Background(), m)) // redelivery

	assert.Equal(t, int64(1), counters.counts["stats:orders:2025-03-10"])
}

func TestAnalytics_RevenueFollowsSettlement(t *testing.T) {
	counters := newMemCounters()
	a := &Analytics{Counters: counters, ServiceName: "test-analytics"}
	day := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	key := "stats:revenue:2025-03-11"

	paid := envelope(t, "ev-2", sales.EventOrderStatusChanged, day, sales.OrderStatusChangedPayload{
		OrderID: "o1", Previous: sales.StatusPending, Current: sales.StatusPaid, TotalCents: 5000,
	})
	require.NoError(t, a.HandleEvent(context.Background(), paid))
	assert.Equal(t, int64(5000), counters.counts[key])

	// settled -> settled does not double count
	delivered := envelope(t, "ev-3", sales.EventOrderStatusChanged, day, sales.OrderStatusChangedPayload{
		OrderID: "o1", Previous: sales.StatusPaid, Current: sales.StatusDelivered, TotalCents: 5000,
	})
	require.NoError(t, a.HandleEvent(context.Background(), delivered))
	assert.Equal(t, int64(5000), counters.counts[key])

	// cancellation of a settled order takes the revenue back
	cancelled := envelope(t, "ev-4", sales.EventOrderStatusChanged, day, sales.OrderStatusChangedPayload{
		OrderID: "o1", Previous: sales.StatusDelivered, Current: sales.StatusCancelled, TotalCents: 5000,
	})
	require.NoError(t, a.HandleEvent(context.Background(), cancelled))
	assert.Equal(t, int64(0), counters.counts[key])
}

func TestAnalytics_IgnoresGarbage(t *testing.T) {
	counters := newMemCounters()
	a := &Analytics{Counters: counters, ServiceName: "test-analytics"}

	require.NoError(t, a.HandleEvent(context.Background(), kafkago.Message{Value: []byte("not json")}))
	assert.Empty(t, counters.counts)
}
