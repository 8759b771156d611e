package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/ledger"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var account ledger.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByCode finds an account by its chart code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*ledger.Account, error) {
	var account ledger.Account
	if err := r.db.WithContext(ctx).First(&account, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns the full chart of accounts ordered by code
func (r *GormAccountRepository) FindAll(ctx context.Context) ([]ledger.Account, error) {
	var accounts []ledger.Account
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindByType returns all accounts of the given type ordered by code
func (r *GormAccountRepository) FindByType(ctx context.Context, accountType ledger.AccountType) ([]ledger.Account, error) {
	var accounts []ledger.Account
	err := r.db.WithContext(ctx).
		Where("type = ?", accountType).
		Order("code ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save persists an account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Select("Name", "Balance", "IsActive", "Version").
		Updates(*account)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ExistsByCode reports whether an account with the given code exists
func (r *GormAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledger.Account{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
