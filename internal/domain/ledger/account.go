// Package ledger implements the double-entry bookkeeping side of the system:
// the chart of accounts, balanced journal entries, and the posting rules that
// translate stock movements into debits and credits.
package ledger

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// BalanceSide is the side on which an account's balance normally grows
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// IsValid reports whether the account type is known
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	default:
		return false
	}
}

// NormalBalance returns the side that increases an account of this type.
// Assets and expenses grow on the debit side; liabilities, equity and revenue
// grow on the credit side.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Account is one account in the chart of accounts. The running balance is
// maintained by applying posted journal lines via ApplyDebit/ApplyCredit.
type Account struct {
	shared.BaseAggregateRoot
	Code       string          `gorm:"size:16;not null;uniqueIndex"`
	Name       string          `gorm:"size:255;not null"`
	Type       AccountType     `gorm:"size:16;not null;index"`
	ParentCode string          `gorm:"size:16;index"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsAnalytic bool            `gorm:"not null"` // only analytic (leaf) accounts take postings
	IsActive   bool            `gorm:"not null"` // no default tag, gorm would drop a zero value carrying one
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates an active account with a zero balance. Analytic accounts
// are the leaves of the chart; summary accounts only aggregate their children.
func NewAccount(code, name string, accountType AccountType, parentCode string, analytic bool) (*Account, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Unknown account type")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Type:              accountType,
		ParentCode:        parentCode,
		Balance:           decimal.Zero,
		IsAnalytic:        analytic,
		IsActive:          true,
	}, nil
}

// acceptsPosting checks that the account may receive journal lines
func (a *Account) acceptsPosting() error {
	if !a.IsAnalytic {
		return shared.NewConsistencyError("SUMMARY_ACCOUNT", "Account "+a.Code+" is a summary account and cannot take postings")
	}
	if !a.IsActive {
		return shared.NewConsistencyError("INACTIVE_ACCOUNT", "Account "+a.Code+" is inactive")
	}
	return nil
}

// ApplyDebit applies a debit amount to the running balance. Debits increase
// debit-normal accounts and decrease credit-normal ones.
func (a *Account) ApplyDebit(amount decimal.Decimal) error {
	if err := a.acceptsPosting(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount cannot be negative")
	}
	if a.Type.NormalBalance() == SideDebit {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// ApplyCredit applies a credit amount to the running balance. Credits increase
// credit-normal accounts and decrease debit-normal ones.
func (a *Account) ApplyCredit(amount decimal.Decimal) error {
	if err := a.acceptsPosting(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount cannot be negative")
	}
	if a.Type.NormalBalance() == SideCredit {
		a.Balance = a.Balance.Add(amount)
	} else {
		a.Balance = a.Balance.Sub(amount)
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Deactivate stops the account accepting new postings
func (a *Account) Deactivate() {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
