package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements the append-only movement journal
// using GORM. Records are created and linked, never updated or deleted.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByNumber finds a transaction by its document number
func (r *GormTransactionRepository) FindByNumber(ctx context.Context, number string) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "transaction_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) findPage(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (shared.Paginated[inventory.InventoryTransaction], error) {
	var (
		rows  []inventory.InventoryTransaction
		total int64
	)

	counter := scope(r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}))
	if err := counter.Count(&total).Error; err != nil {
		return shared.Paginated[inventory.InventoryTransaction]{}, err
	}

	// Transaction numbers are zero-padded, so string order is sequence order.
	// Sorting on created_at would shuffle rows written in the same instant.
	query := scope(r.db.WithContext(ctx)).
		Order("transaction_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&rows).Error; err != nil {
		return shared.Paginated[inventory.InventoryTransaction]{}, err
	}

	return shared.NewPaginated(rows, total, filter.Page, filter.Limit()), nil
}

// FindByProduct finds all transactions for a product, newest first
func (r *GormTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	})
}

// FindByOrder finds all transactions linked to an order, oldest first
func (r *GormTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var rows []inventory.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("transaction_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByPeriod finds all transactions created within the given period
func (r *GormTransactionRepository) FindByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ? AND created_at < ?", start, end)
	})
}

// FindByType finds all transactions of the given movement type
func (r *GormTransactionRepository) FindByType(ctx context.Context, movementType inventory.MovementType, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("movement_type = ?", movementType)
	})
}

// FindUnposted finds accounting-effective transactions without a journal entry
func (r *GormTransactionRepository) FindUnposted(ctx context.Context, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("journal_entry_id IS NULL AND movement_type NOT IN ?", []inventory.MovementType{
			inventory.MovementReservation,
			inventory.MovementReservationRelease,
			inventory.MovementTransfer,
		})
	})
}

// Create appends a new transaction to the journal
func (r *GormTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// LinkJournalEntry sets the journal entry reference on a transaction. The
// reference is write-once; a second link attempt fails.
func (r *GormTransactionRepository) LinkJournalEntry(ctx context.Context, txID, journalEntryID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Where("id = ? AND journal_entry_id IS NULL", txID).
		Update("journal_entry_id", journalEntryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConsistencyError("ALREADY_LINKED", "transaction already has a journal entry")
	}
	return nil
}

// CountByProduct counts all transactions for a product
func (r *GormTransactionRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
