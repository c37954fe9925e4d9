package domain

import "time"

// Status is the closed set of order lifecycle states. Orders are created as
// StatusPending by the checkout flow and only move through admin actions.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus tracks payment independently of the order lifecycle. An
// order can be shipped while its payment is still pending.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Order struct {
	ID            string
	CustomerName  *string
	CustomerEmail *string
	Subtotal      float64
	Shipping      float64
	Tax           float64
	Discount      float64
	Total         float64
	Status        Status
	PaymentStatus PaymentStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ShortCode is the display-friendly order code, the last 6 characters of
// the full ID.
func (o Order) ShortCode() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

// IsGuest reports whether the order has no associated customer account.
func (o Order) IsGuest() bool {
	return o.CustomerName == nil
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return PaymentStatus(s), true
	}
	return "", false
}

// statusTransitions is the legal adjacency for admin-triggered lifecycle
// changes. Delivered and cancelled are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// target. Re-applying the current status is allowed as a no-op so that
// repeated bulk actions stay idempotent.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
