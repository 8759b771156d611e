package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle of a journal entry
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// FormatEntryNumber renders an allocated sequence value as a journal entry
// number
func FormatEntryNumber(seq int64) string {
	return fmt.Sprintf("JE-%08d", seq)
}

// AccountingEntry is one debit or credit line of a journal entry. Exactly one
// of Debit and Credit is positive; the other is zero.
type AccountingEntry struct {
	shared.BaseEntity
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountCode    string          `gorm:"size:16;not null"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description    string          `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (AccountingEntry) TableName() string {
	return "accounting_entries"
}

// JournalEntry is a balanced set of accounting lines. Entries are built in
// draft status and become immutable once posted.
type JournalEntry struct {
	shared.BaseAggregateRoot
	EntryNumber string      `gorm:"size:32;not null;uniqueIndex"`
	EntryDate   time.Time   `gorm:"not null;index"`
	Description string      `gorm:"size:500;not null"`
	Reference   string      `gorm:"size:64;index"` // Source document, e.g. a transaction number
	Status      EntryStatus `gorm:"size:16;not null;default:'DRAFT'"`
	PostedAt    *time.Time

	// Associations - loaded lazily
	Lines []AccountingEntry `gorm:"foreignKey:JournalEntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// NewJournalEntry creates a draft journal entry with no lines
func NewJournalEntry(entryNumber, description, reference string, entryDate time.Time) (*JournalEntry, error) {
	entryNumber = strings.TrimSpace(entryNumber)
	description = strings.TrimSpace(description)

	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY_NUMBER", "Entry number cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Entry description cannot be empty")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	return &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryNumber:       entryNumber,
		EntryDate:         entryDate,
		Description:       description,
		Reference:         reference,
		Status:            EntryStatusDraft,
		Lines:             make([]AccountingEntry, 0),
	}, nil
}

// AddDebit appends a debit line to a draft entry
func (e *JournalEntry) AddDebit(accountID uuid.UUID, accountCode string, amount decimal.Decimal, description string) error {
	return e.addLine(accountID, accountCode, amount, decimal.Zero, description)
}

// AddCredit appends a credit line to a draft entry
func (e *JournalEntry) AddCredit(accountID uuid.UUID, accountCode string, amount decimal.Decimal, description string) error {
	return e.addLine(accountID, accountCode, decimal.Zero, amount, description)
}

func (e *JournalEntry) addLine(accountID uuid.UUID, accountCode string, debit, credit decimal.Decimal, description string) error {
	if e.Status == EntryStatusPosted {
		return shared.ErrEntryPosted
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	amount := debit
	if amount.IsZero() {
		amount = credit
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Line amount must be positive")
	}

	e.Lines = append(e.Lines, AccountingEntry{
		BaseEntity:     shared.NewBaseEntity(),
		JournalEntryID: e.ID,
		AccountID:      accountID,
		AccountCode:    accountCode,
		Debit:          debit,
		Credit:         credit,
		Description:    description,
	})
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// TotalDebits sums the debit side of all lines
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for idx := range e.Lines {
		total = total.Add(e.Lines[idx].Debit)
	}
	return total
}

// TotalCredits sums the credit side of all lines
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for idx := range e.Lines {
		total = total.Add(e.Lines[idx].Credit)
	}
	return total
}

// Validate checks the double-entry invariants: at least two lines, every line
// strictly one-sided, and total debits equal to total credits.
func (e *JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return shared.NewConsistencyError("TOO_FEW_LINES", "A journal entry needs at least one debit and one credit line")
	}
	for idx := range e.Lines {
		line := &e.Lines[idx]
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.NewConsistencyError("INVALID_LINE", "Line amounts cannot be negative")
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return shared.NewConsistencyError("INVALID_LINE", "Each line must be either a debit or a credit")
		}
	}
	if !e.TotalDebits().Equal(e.TotalCredits()) {
		return shared.ErrUnbalancedEntry
	}
	return nil
}

// Post validates the entry and makes it immutable
func (e *JournalEntry) Post() error {
	if e.Status == EntryStatusPosted {
		return shared.ErrEntryPosted
	}
	if err := e.Validate(); err != nil {
		return err
	}

	now := time.Now()
	e.Status = EntryStatusPosted
	e.PostedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// IsPosted reports whether the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}
