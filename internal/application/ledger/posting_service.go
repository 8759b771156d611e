// Package ledger contains the application services for the accounting side:
// posting stock movements as journal entries, seeding the chart of accounts,
// and ledger reporting.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/ledger"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingService posts stock movements to the general ledger and answers
// ledger queries.
type PostingService struct {
	accountRepo ledger.AccountRepository
	journalRepo ledger.JournalEntryRepository
	logger      *zap.Logger
}

// NewPostingService creates a new PostingService. The repositories passed here
// are used for queries only; posting always goes through the transactional
// repositories handed to PostMovementTx.
func NewPostingService(accountRepo ledger.AccountRepository, journalRepo ledger.JournalEntryRepository, logger *zap.Logger) *PostingService {
	return &PostingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// SeedChartOfAccounts creates any missing accounts from the default chart.
// Safe to run on every startup.
func (s *PostingService) SeedChartOfAccounts(ctx context.Context) error {
	for _, seed := range ledger.DefaultChartOfAccounts() {
		exists, err := s.accountRepo.ExistsByCode(ctx, seed.Code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		account, err := ledger.NewAccount(seed.Code, seed.Name, seed.Type, seed.ParentCode, seed.Analytic)
		if err != nil {
			return err
		}
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		s.logger.Info("seeded ledger account",
			zap.String("code", seed.Code),
			zap.String("name", seed.Name))
	}
	return nil
}

// PostMovementTx books a movement as a balanced journal entry using
// repositories scoped to the caller's transaction. Movements with no
// accounting effect return a nil entry; an effect without a positive amount
// is an error.
func (s *PostingService) PostMovementTx(
	ctx context.Context,
	accounts ledger.AccountRepository,
	journals ledger.JournalEntryRepository,
	sequences shared.SequenceAllocator,
	tx *inventory.InventoryTransaction,
) (*ledger.JournalEntry, error) {
	rule, ok := ledger.RuleFor(tx.MovementType, tx.Quantity)
	if !ok {
		return nil, nil
	}

	// An accounting-effective movement without a positive value is a caller
	// bug, never something to post or to skip silently.
	amount := tx.TotalCost
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidPostingAmount
	}

	seq, err := sequences.Next(ctx, shared.SequenceJournalEntry)
	if err != nil {
		return nil, err
	}

	entry, err := ledger.NewJournalEntry(
		ledger.FormatEntryNumber(seq),
		string(tx.MovementType)+" "+tx.SKU,
		tx.TransactionNumber,
		tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	debitAccount, err := s.getOrCreateAccount(ctx, accounts, rule.DebitCode)
	if err != nil {
		return nil, err
	}
	creditAccount, err := s.getOrCreateAccount(ctx, accounts, rule.CreditCode)
	if err != nil {
		return nil, err
	}

	if err := entry.AddDebit(debitAccount.ID, debitAccount.Code, amount, tx.Reason); err != nil {
		return nil, err
	}
	if err := entry.AddCredit(creditAccount.ID, creditAccount.Code, amount, tx.Reason); err != nil {
		return nil, err
	}
	// Entries stay in draft until ClosePeriod, but the double-entry
	// invariants must hold before anything is committed.
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := debitAccount.ApplyDebit(amount); err != nil {
		return nil, err
	}
	if err := creditAccount.ApplyCredit(amount); err != nil {
		return nil, err
	}

	if err := accounts.SaveWithLock(ctx, debitAccount); err != nil {
		return nil, err
	}
	if err := accounts.SaveWithLock(ctx, creditAccount); err != nil {
		return nil, err
	}
	if err := journals.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("posted movement",
		zap.String("entry", entry.EntryNumber),
		zap.String("transaction", tx.TransactionNumber),
		zap.String("debit", rule.DebitCode),
		zap.String("credit", rule.CreditCode),
		zap.String("amount", amount.String()))

	return entry, nil
}

// getOrCreateAccount resolves a chart account by code, seeding it from the
// default chart when it does not exist yet. Codes outside the default chart
// are a configuration error, not a reason to invent accounts.
func (s *PostingService) getOrCreateAccount(ctx context.Context, accounts ledger.AccountRepository, code string) (*ledger.Account, error) {
	account, err := accounts.FindByCode(ctx, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	seed, ok := ledger.SeedFor(code)
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_ACCOUNT", "Account code "+code+" is not in the chart of accounts")
	}
	account, err = ledger.NewAccount(seed.Code, seed.Name, seed.Type, seed.ParentCode, seed.Analytic)
	if err != nil {
		return nil, err
	}
	if err := accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("seeded ledger account on demand", zap.String("code", code))
	return account, nil
}

// ClosePeriod posts every draft journal entry dated on or before endDate.
// Posted entries become read-only. Returns the number of entries posted.
func (s *PostingService) ClosePeriod(ctx context.Context, endDate time.Time) (int64, error) {
	if endDate.IsZero() {
		return 0, shared.NewDomainError("INVALID_PERIOD_END", "Period end date cannot be empty")
	}

	closed, err := s.journalRepo.MarkPostedThrough(ctx, endDate, time.Now())
	if err != nil {
		return 0, err
	}
	s.logger.Info("closed accounting period",
		zap.Time("end_date", endDate),
		zap.Int64("entries_posted", closed))
	return closed, nil
}

// GetAccountByCode returns one account from the chart
func (s *PostingService) GetAccountByCode(ctx context.Context, code string) (*ledger.Account, error) {
	return s.accountRepo.FindByCode(ctx, code)
}

// GetChartOfAccounts returns the full chart ordered by code
func (s *PostingService) GetChartOfAccounts(ctx context.Context) ([]ledger.Account, error) {
	return s.accountRepo.FindAll(ctx)
}

// GetJournalEntry returns one journal entry with its lines
func (s *PostingService) GetJournalEntry(ctx context.Context, number string) (*ledger.JournalEntry, error) {
	return s.journalRepo.FindByNumber(ctx, number)
}

// GetJournalEntriesByPeriod returns entries dated within a period
func (s *PostingService) GetJournalEntriesByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[ledger.JournalEntry], error) {
	return s.journalRepo.FindByPeriod(ctx, start, end, filter)
}

// TrialBalanceRow is one line of a trial balance report
type TrialBalanceRow struct {
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType ledger.AccountType `json:"account_type"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// TrialBalance lists every account balance on its normal side. A healthy
// ledger has equal debit and credit totals.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// GetTrialBalance builds a trial balance from current account balances
func (s *PostingService) GetTrialBalance(ctx context.Context) (*TrialBalance, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{
		Rows:        make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for idx := range accounts {
		a := &accounts[idx]
		if a.Balance.IsZero() {
			continue
		}

		row := TrialBalanceRow{
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.Type,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		// A negative balance flips the account onto its abnormal side
		side := a.Type.NormalBalance()
		amount := a.Balance
		if amount.IsNegative() {
			amount = amount.Neg()
			if side == ledger.SideDebit {
				side = ledger.SideCredit
			} else {
				side = ledger.SideDebit
			}
		}
		if side == ledger.SideDebit {
			row.Debit = amount
			report.TotalDebit = report.TotalDebit.Add(amount)
		} else {
			row.Credit = amount
			report.TotalCredit = report.TotalCredit.Add(amount)
		}
		report.Rows = append(report.Rows, row)
	}
	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)
	return report, nil
}
