package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/gvendas/go-sales-api/internal/kafka"
	"github.com/gvendas/go-sales-api/internal/redisx"
)

// EventPublisher is the fire-and-forget side of the workflow; the kafka
// producer satisfies it.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Workflow drives order creation and status transitions. Redis and the
// publishers are optional: without them the engine still does its job, it
// just skips caching and event emission.
type Workflow struct {
	Store         OrderStore
	Ledger        Ledger
	Redis         *redis.Client
	CreatedEvents EventPublisher
	StatusEvents  EventPublisher
	ServiceName   string
	Log           *zap.Logger
}

// CreateOrder validates the request, reserves stock line by line, and
// persists the order atomically. Reservations already made are released if
// any later step fails, so a rejected request leaves stock untouched.
func (w *Workflow) CreateOrder(ctx context.Context, customerID string, lines []LineInput) (*OrderDetail, error) {
	if customerID == "" {
		return nil, invalidf("customer_id is required")
	}
	if len(lines) == 0 {
		return nil, invalidf("order needs at least one line")
	}
	for _, ln := range lines {
		if ln.ProductID == "" {
			return nil, invalidf("each line needs a product_id")
		}
		if ln.Qty < 1 {
			return nil, invalidf("qty must be >= 1 for product %s", ln.ProductID)
		}
	}

	ok, err := w.Store.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundf("customer %s", customerID)
	}

	orderID := uuid.NewString()
	now := time.Now().UTC()

	// Compensation list: every successful reservation is recorded here and
	// replayed as a release if the request fails later on.
	reserved := make([]LineQty, 0, len(lines))

	total := 0
	olines := make([]OrderLine, 0, len(lines))
	for i, ln := range lines {
		price, err := w.Ledger.Reserve(ctx, ln.ProductID, ln.Qty)
		if err != nil {
			w.releaseReserved(reserved)
			return nil, err
		}
		reserved = append(reserved, LineQty{ProductID: ln.ProductID, Qty: ln.Qty})

		sub := price * ln.Qty
		total += sub
		olines = append(olines, OrderLine{
			ID:             uuid.NewString(),
			OrderID:        orderID,
			LineNo:         i + 1,
			ProductID:      ln.ProductID,
			Qty:            ln.Qty,
			UnitPriceCents: price,
			SubtotalCents:  sub,
		})
	}

	order := Order{
		ID:         orderID,
		CustomerID: customerID,
		Status:     StatusPending,
		TotalCents: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := w.Store.InsertOrder(ctx, order, olines); err != nil {
		w.releaseReserved(reserved)
		return nil, err
	}

	detail, err := w.Store.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	w.cacheDetail(ctx, detail)
	w.publishCreated(detail)
	return detail, nil
}

// UpdateStatus sets any valid status. Moving into Cancelled restores stock
// for every line exactly once; everything else leaves stock alone.
func (w *Workflow) UpdateStatus(ctx context.Context, orderID string, next Status) (*OrderDetail, error) {
	if orderID == "" {
		return nil, invalidf("order id is required")
	}
	if !next.Valid() {
		return nil, invalidf("status must be one of %v", AllStatuses())
	}

	prev, err := w.Store.TransitionStatus(ctx, orderID, next, next == StatusCancelled)
	if err != nil {
		return nil, err
	}

	detail, err := w.Store.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	w.cacheDetail(ctx, detail)
	w.publishStatusChanged(detail, prev)
	return detail, nil
}

func (w *Workflow) FetchOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	if orderID == "" {
		return nil, invalidf("order id is required")
	}
	return w.Store.GetDetail(ctx, orderID)
}

func (w *Workflow) ListOrders(ctx context.Context) ([]OrderDetail, error) {
	return w.Store.ListDetails(ctx)
}

// releaseReserved rolls back reservations after a failed request. It runs on
// a fresh context: the request context may already be cancelled, and the
// stock has to come back regardless.
func (w *Workflow) releaseReserved(reserved []LineQty) {
	if len(reserved) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := w.Ledger.Release(ctx, r.ProductID, r.Qty); err != nil {
			w.log().Error("release reserved stock",
				zap.String("product_id", r.ProductID),
				zap.Int("qty", r.Qty),
				zap.Error(err))
		}
	}
}

func (w *Workflow) cacheDetail(ctx context.Context, d *OrderDetail) {
	if w.Redis == nil {
		return
	}
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderDetail, d.ID)
	if err := w.Redis.Set(ctx, key, b, redisx.TTLOrderDetail).Err(); err != nil {
		w.log().Warn("cache order detail", zap.String("order_id", d.ID), zap.Error(err))
	}
}

func (w *Workflow) publishCreated(d *OrderDetail) {
	if w.CreatedEvents == nil {
		return
	}
	lines := make([]LineQty, 0, len(d.Lines))
	for _, ln := range d.Lines {
		lines = append(lines, LineQty{ProductID: ln.ProductID, Qty: ln.Qty})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      w.ServiceName,
		CorrelationID: d.ID,
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID:    d.ID,
			CustomerID: d.CustomerID,
			Lines:      lines,
			TotalCents: d.TotalCents,
			CreatedAt:  d.CreatedAt,
		}),
	}
	w.CreatedEvents.Publish(PartitionKey(d.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (w *Workflow) publishStatusChanged(d *OrderDetail, prev Status) {
	if w.StatusEvents == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      w.ServiceName,
		CorrelationID: d.ID,
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			OrderID:    d.ID,
			Previous:   prev,
			Current:    d.Status,
			TotalCents: d.TotalCents,
		}),
	}
	w.StatusEvents.Publish(PartitionKey(d.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (w *Workflow) log() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}
