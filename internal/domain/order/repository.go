package order

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID, preloading line items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCustomer finds orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[Order], error)

	// FindByStatus finds orders with the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) (shared.Paginated[Order], error)

	// FindByDateRange finds orders created within a time range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[Order], error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Order], error)

	// Save creates or updates an order and its line items
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, o *Order) error

	// CountByStatus counts orders per status
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
