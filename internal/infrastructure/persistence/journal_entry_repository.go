package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/ledger"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds a journal entry by its ID
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	var entry ledger.JournalEntry
	if err := r.db.WithContext(ctx).Preload("Lines").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByNumber finds a journal entry by its entry number
func (r *GormJournalEntryRepository) FindByNumber(ctx context.Context, number string) (*ledger.JournalEntry, error) {
	var entry ledger.JournalEntry
	if err := r.db.WithContext(ctx).Preload("Lines").First(&entry, "entry_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByReference finds all journal entries with the given source reference
func (r *GormJournalEntryRepository) FindByReference(ctx context.Context, reference string) ([]ledger.JournalEntry, error) {
	var entries []ledger.JournalEntry
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByPeriod finds all journal entries dated within the given period
func (r *GormJournalEntryRepository) FindByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[ledger.JournalEntry], error) {
	var (
		entries []ledger.JournalEntry
		total   int64
	)

	base := r.db.WithContext(ctx).
		Model(&ledger.JournalEntry{}).
		Where("entry_date >= ? AND entry_date < ?", start, end)
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.JournalEntry]{}, err
	}

	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("entry_date >= ? AND entry_date < ?", start, end).
		Order("entry_date DESC, entry_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error
	if err != nil {
		return shared.Paginated[ledger.JournalEntry]{}, err
	}

	return shared.NewPaginated(entries, total, filter.Page, filter.Limit()), nil
}

// FindByAccount finds all journal entries touching the given account
func (r *GormJournalEntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.JournalEntry], error) {
	var (
		entries []ledger.JournalEntry
		total   int64
	)

	sub := r.db.Model(&ledger.AccountingEntry{}).
		Select("journal_entry_id").
		Where("account_id = ?", accountID)

	base := r.db.WithContext(ctx).
		Model(&ledger.JournalEntry{}).
		Where("id IN (?)", sub)
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.JournalEntry]{}, err
	}

	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id IN (?)", sub).
		Order("entry_date DESC, entry_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error
	if err != nil {
		return shared.Paginated[ledger.JournalEntry]{}, err
	}

	return shared.NewPaginated(entries, total, filter.Page, filter.Limit()), nil
}

// Save persists a journal entry and its lines
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(entry).Error
}

// MarkPostedThrough posts every draft entry dated on or before endDate
func (r *GormJournalEntryRepository) MarkPostedThrough(ctx context.Context, endDate, postedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&ledger.JournalEntry{}).
		Where("status = ? AND entry_date <= ?", ledger.EntryStatusDraft, endDate).
		Updates(map[string]interface{}{
			"status":     ledger.EntryStatusPosted,
			"posted_at":  postedAt,
			"updated_at": postedAt,
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// CountByPeriod counts journal entries dated within the given period
func (r *GormJournalEntryRepository) CountByPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledger.JournalEntry{}).
		Where("entry_date >= ? AND entry_date < ?", start, end).
		Count(&count).Error
	return count, err
}

var _ ledger.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
