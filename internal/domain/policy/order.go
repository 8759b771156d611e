package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order amount and size bounds
var (
	MinOrderAmount = decimal.NewFromFloat(0.01)
	MaxOrderAmount = decimal.NewFromFloat(999999.99)
)

const (
	// MinOrderItems is the minimum number of line items in an order
	MinOrderItems = 1
	// MaxOrderItems is the maximum number of line items in an order
	MaxOrderItems = 100
	// CancellationWindow is how long after creation an order may be cancelled
	// by the customer
	CancellationWindow = 24 * time.Hour
	// RefundWindow is how long after delivery an order may be refunded
	RefundWindow = 30 * 24 * time.Hour
)

// Canonical order status names used by the transition table. The order
// package defines the typed enum; the table here is the single source of
// truth for which transitions are legal.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

// orderTransitions maps each status to the set of statuses it may move to.
// Cancelled and Refunded are terminal and deliberately absent.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

// IsValidOrderStatusTransition reports whether an order may move from one
// status to another. Any pair not present in the transition table is rejected.
func IsValidOrderStatusTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidOrderAmount validates a monetary order amount against system bounds.
func IsValidOrderAmount(amount decimal.Decimal) (bool, string) {
	if amount.LessThan(MinOrderAmount) {
		return false, "order amount is below the minimum"
	}
	if amount.GreaterThan(MaxOrderAmount) {
		return false, "order amount exceeds the maximum"
	}
	return true, ""
}

// IsValidItemCount validates the number of line items in an order.
func IsValidItemCount(count int) (bool, string) {
	if count < MinOrderItems {
		return false, "order must contain at least one item"
	}
	if count > MaxOrderItems {
		return false, "order exceeds the maximum number of items"
	}
	return true, ""
}

// IsWithinCancellationWindow reports whether an order created at createdAt can
// still be cancelled by the customer at the given instant.
func IsWithinCancellationWindow(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= CancellationWindow
}

// CanRefundOrder validates a refund request: the order must be delivered and
// delivery must have happened within the refund window.
func CanRefundOrder(status string, deliveredAt *time.Time, now time.Time) (bool, string) {
	if status != OrderStatusDelivered {
		return false, "only delivered orders can be refunded"
	}
	if deliveredAt == nil {
		return false, "order has no delivery timestamp"
	}
	if now.Sub(*deliveredAt) > RefundWindow {
		return false, "refund window has expired"
	}
	return true, ""
}
