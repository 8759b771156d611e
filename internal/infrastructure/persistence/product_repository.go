package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Locations").Preload("Reviews")
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var p product.Product
	if err := r.withAssociations(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var p product.Product
	if err := r.withAssociations(ctx).First(&p, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs finds all products whose ID is in the given list
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}
	var products []product.Product
	if err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) findPage(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (shared.Paginated[product.Product], error) {
	var (
		products []product.Product
		total    int64
	)

	counter := scope(r.db.WithContext(ctx).Model(&product.Product{}))
	if err := counter.Count(&total).Error; err != nil {
		return shared.Paginated[product.Product]{}, err
	}

	query := scope(r.withAssociations(ctx)).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit())
	if err := query.Find(&products).Error; err != nil {
		return shared.Paginated[product.Product]{}, err
	}

	return shared.NewPaginated(products, total, filter.Page, filter.Limit()), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[product.Product], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB { return db })
}

// FindActive finds all active products matching the filter
func (r *GormProductRepository) FindActive(ctx context.Context, filter shared.Filter) (shared.Paginated[product.Product], error) {
	return r.findPage(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	})
}

// FindBelowReorderLevel finds products with at least one location whose
// available quantity sits at or below its reorder level
func (r *GormProductRepository) FindBelowReorderLevel(ctx context.Context) ([]product.Product, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&product.InventoryLocation{}).
		Where("reorder_level > 0 AND quantity_in_stock - quantity_reserved <= reorder_level").
		Distinct().
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return r.FindByIDs(ctx, ids)
}

// Save persists a product and its associations
func (r *GormProductRepository) Save(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(p).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&product.Product{}).
			Where("id = ? AND version = ?", p.ID, p.Version-1).
			Select("Name", "Description", "Price", "AverageCost", "IsActive", "Version").
			Updates(*p)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if len(p.Locations) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&p.Locations).Error; err != nil {
				return err
			}
		}
		if len(p.Reviews) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&p.Reviews).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete soft-deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&product.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySKU reports whether a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ product.ProductRepository = (*GormProductRepository)(nil)
