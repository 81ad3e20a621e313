package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/gvendas/go-sales-api/internal/kafka"
	"github.com/gvendas/go-sales-api/internal/redisx"
	"github.com/gvendas/go-sales-api/internal/sales"
)

// Counters is the small persistence surface the analytics worker needs:
// a seen-before check per event and additive counters.
type Counters interface {
	// MarkSeen records the key and reports whether it was new.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Add(ctx context.Context, key string, delta int64) error
}

type RedisCounters struct{ R *redis.Client }

func (c *RedisCounters) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.R.SetNX(ctx, key, "1", ttl).Result()
}

func (c *RedisCounters) Add(ctx context.Context, key string, delta int64) error {
	return c.R.IncrBy(ctx, key, delta).Err()
}

// Analytics consumes order events and keeps rolling daily counters: orders
// placed per day and revenue recognized per day (an order counts toward
// revenue when it settles, and is subtracted again if it later leaves the
// settled state).
type Analytics struct {
	Counters    Counters
	ServiceName string
	Log         *zap.Logger
}

// HandleEvent is wired as the kafka consumer handler.
func (a *Analytics) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env sales.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and move on, retrying cannot fix it
		a.log().Warn("bad event envelope", zap.Error(err))
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, a.ServiceName, env.EventID)
	fresh, err := a.Counters.MarkSeen(ctx, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	day := env.OccurredAt.UTC().Format("2006-01-02")

	switch env.EventType {
	case sales.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[sales.OrderCreatedPayload](env.Payload)
		if err != nil {
			a.log().Warn("bad payload", zap.String("event_type", env.EventType), zap.Error(err))
			return nil
		}
		if !p.CreatedAt.IsZero() {
			day = p.CreatedAt.UTC().Format("2006-01-02")
		}
		return a.Counters.Add(ctx, fmt.Sprintf(redisx.KeyDailyOrders, day), 1)

	case sales.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[sales.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			a.log().Warn("bad payload", zap.String("event_type", env.EventType), zap.Error(err))
			return nil
		}
		switch {
		case p.Current.Settled() && !p.Previous.Settled():
			return a.Counters.Add(ctx, fmt.Sprintf(redisx.KeyDailyRevenue, day), int64(p.TotalCents))
		case !p.Current.Settled() && p.Previous.Settled():
			return a.Counters.Add(ctx, fmt.Sprintf(redisx.KeyDailyRevenue, day), -int64(p.TotalCents))
		}
		return nil
	}

	return nil // unknown event types are ignored
}

func (a *Analytics) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
