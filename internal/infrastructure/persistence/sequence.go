package persistence

import (
	"context"
	"fmt"

	"github.com/commerce/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sequenceRow backs the named counters for document numbers
type sequenceRow struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

func (sequenceRow) TableName() string {
	return "sequences"
}

// seedSequences ensures every well-known sequence has a row
func seedSequences(db *gorm.DB) error {
	rows := []sequenceRow{
		{Name: shared.SequenceInventoryTransaction},
		{Name: shared.SequenceJournalEntry},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GormSequenceAllocator allocates monotonically increasing numbers using a
// single-row UPDATE, which is atomic under concurrent callers.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Next returns the next number from the named sequence
func (a *GormSequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := a.db.WithContext(ctx).
		Raw("UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value", name).
		Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	if value == 0 {
		return 0, shared.NewStorageError("SEQUENCE_MISSING", fmt.Sprintf("sequence %s is not seeded", name))
	}
	return value, nil
}

var _ shared.SequenceAllocator = (*GormSequenceAllocator)(nil)
