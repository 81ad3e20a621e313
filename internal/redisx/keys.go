package redisx

import "time"

const (
	// Composed order cache: order:detail:{order_id} -> OrderDetail JSON
	KeyOrderDetail = "order:detail:%s"

	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Analytics counters kept by the worker, keyed by day (YYYY-MM-DD).
	KeyDailyOrders  = "stats:orders:%s"
	KeyDailyRevenue = "stats:revenue:%s"
)

var (
	TTLOrderDetail = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
