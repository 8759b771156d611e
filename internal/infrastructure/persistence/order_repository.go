package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) findPage(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (shared.Paginated[order.Order], error) {
	var (
		orders []order.Order
		total  int64
	)

	counter := scope(r.db.WithContext(ctx).Model(&order.Order{}))
	if err := counter.Count(&total).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	query := scope(r.db.WithContext(ctx).Preload("Items")).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&orders).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.Limit()), nil
}

// FindByCustomer finds all orders for a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_id = ?", customerID)
	})
}

// FindByStatus finds all orders with the given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
}

// FindByDateRange finds all orders created within the given period
func (r *GormOrderRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ? AND created_at < ?", start, end)
	})
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB { return db })
}

// Save persists an order and its items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(o).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Select("Status", "SubTotal", "TaxAmount", "ShippingCost", "DiscountAmount",
				"TotalAmount", "CouponCode", "PaymentMethod", "TrackingNumber",
				"ShippingAddress", "BillingAddress", "ConfirmedAt", "ShippedAt",
				"DeliveredAt", "CancelledAt", "RefundedAt", "CancelReason", "Version").
			Updates(*o)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if len(o.Items) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&o.Items).Error; err != nil {
				return err
			}
		}

		// drop item rows removed from the aggregate
		itemIDs := make([]uuid.UUID, 0, len(o.Items))
		for _, item := range o.Items {
			itemIDs = append(itemIDs, item.ID)
		}
		stale := tx.Where("order_id = ?", o.ID)
		if len(itemIDs) > 0 {
			stale = stale.Where("id NOT IN ?", itemIDs)
		}
		return stale.Delete(&order.OrderItem{}).Error
	})
}

// CountByStatus counts orders with the given status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
