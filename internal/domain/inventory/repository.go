package inventory

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionRepository defines the interface for movement journal persistence.
// The journal is append-only: rows are created, linked to their journal entry,
// and never updated or deleted afterwards.
type TransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindByNumber finds a transaction by its transaction number
	FindByNumber(ctx context.Context, number string) (*InventoryTransaction, error)

	// FindByProduct finds transactions for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[InventoryTransaction], error)

	// FindByOrder finds transactions tied to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]InventoryTransaction, error)

	// FindByPeriod finds transactions created within a time range
	FindByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[InventoryTransaction], error)

	// FindByType finds transactions of a movement type
	FindByType(ctx context.Context, movementType MovementType, filter shared.Filter) (shared.Paginated[InventoryTransaction], error)

	// FindUnposted finds accounting-effective transactions with no journal
	// entry link yet
	FindUnposted(ctx context.Context, filter shared.Filter) (shared.Paginated[InventoryTransaction], error)

	// Create appends a new transaction
	Create(ctx context.Context, tx *InventoryTransaction) error

	// LinkJournalEntry persists the journal entry link for a transaction
	LinkJournalEntry(ctx context.Context, txID, journalEntryID uuid.UUID) error

	// CountByProduct counts transactions for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
