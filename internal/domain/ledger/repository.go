package ledger

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for chart-of-accounts persistence
type AccountRepository interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its code
	FindByCode(ctx context.Context, code string) (*Account, error)

	// FindAll returns the full chart of accounts ordered by code
	FindAll(ctx context.Context) ([]Account, error)

	// FindByType finds accounts of a given type
	FindByType(ctx context.Context, accountType AccountType) ([]Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, a *Account) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, a *Account) error

	// ExistsByCode checks whether an account code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// JournalEntryRepository defines the interface for journal persistence.
// Posted entries are immutable; Save is only valid for drafts or for the
// draft-to-posted transition.
type JournalEntryRepository interface {
	// FindByID finds a journal entry by its ID, preloading lines
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindByNumber finds a journal entry by its entry number
	FindByNumber(ctx context.Context, number string) (*JournalEntry, error)

	// FindByReference finds entries referencing a source document
	FindByReference(ctx context.Context, reference string) ([]JournalEntry, error)

	// FindByPeriod finds entries dated within a time range
	FindByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[JournalEntry], error)

	// FindByAccount finds entries containing lines for an account
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[JournalEntry], error)

	// Save creates or updates a journal entry and its lines
	Save(ctx context.Context, e *JournalEntry) error

	// MarkPostedThrough posts every draft entry dated on or before endDate
	// and returns how many entries changed status
	MarkPostedThrough(ctx context.Context, endDate, postedAt time.Time) (int64, error)

	// CountByPeriod counts entries dated within a time range
	CountByPeriod(ctx context.Context, start, end time.Time) (int64, error)
}
