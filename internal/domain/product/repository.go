package product

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, preloading locations and reviews
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Product], error)

	// FindActive finds active products matching the filter
	FindActive(ctx context.Context, filter shared.Filter) (shared.Paginated[Product], error)

	// FindBelowReorderLevel finds products with at least one location below
	// its reorder level
	FindBelowReorderLevel(ctx context.Context) ([]Product, error)

	// Save creates or updates a product and its child entities
	Save(ctx context.Context, p *Product) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, p *Product) error

	// Delete soft-deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySKU checks whether a SKU is already taken
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
