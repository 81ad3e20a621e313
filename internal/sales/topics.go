package sales

const (
	TopicOrderCreated       = "sales.order.created"
	TopicOrderStatusChanged = "sales.order.status_changed"
)

// Partition key = order id, so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
