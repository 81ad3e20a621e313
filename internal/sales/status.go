package sales

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
	StatusDelivered Status = "Delivered"
)

var validStatus = map[Status]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
	StatusDelivered: true,
}

func (s Status) Valid() bool { return validStatus[s] }

// Settled orders (paid or delivered) are the ones counted in revenue and
// ranking reports.
func (s Status) Settled() bool { return s == StatusPaid || s == StatusDelivered }

func AllStatuses() []Status {
	return []Status{StatusPending, StatusPaid, StatusCancelled, StatusDelivered}
}
