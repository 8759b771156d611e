package inventory

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	appledger "github.com/commerce/backend/internal/application/ledger"
	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/ledger"
	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- in-memory repositories ----

type memProductRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: map[uuid.UUID]*product.Product{}}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]product.Product, error) {
	out := make([]product.Product, 0)
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, filter shared.Filter) (shared.Paginated[product.Product], error) {
	out := make([]product.Product, 0)
	for _, p := range r.items {
		out = append(out, *p)
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memProductRepo) FindActive(ctx context.Context, filter shared.Filter) (shared.Paginated[product.Product], error) {
	return r.FindAll(ctx, filter)
}

func (r *memProductRepo) FindBelowReorderLevel(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Save(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return nil
}

func (r *memProductRepo) SaveWithLock(ctx context.Context, p *product.Product) error {
	return r.Save(ctx, p)
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	return err == nil, nil
}

type memTransactionRepo struct {
	mu   sync.Mutex
	rows []*inventory.InventoryTransaction
}

func (r *memTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	for _, tx := range r.rows {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransactionRepo) FindByNumber(_ context.Context, number string) (*inventory.InventoryTransaction, error) {
	for _, tx := range r.rows {
		if tx.TransactionNumber == number {
			return tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransactionRepo) FindByProduct(_ context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.rows {
		if tx.ProductID == productID {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionNumber > out[j].TransactionNumber })
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memTransactionRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.rows {
		if tx.OrderID != nil && *tx.OrderID == orderID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *memTransactionRepo) FindByPeriod(_ context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.rows {
		if !tx.CreatedAt.Before(start) && tx.CreatedAt.Before(end) {
			out = append(out, *tx)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memTransactionRepo) FindByType(_ context.Context, movementType inventory.MovementType, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.rows {
		if tx.MovementType == movementType {
			out = append(out, *tx)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memTransactionRepo) FindUnposted(_ context.Context, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.rows {
		if tx.MovementType.HasAccountingEffect() && tx.JournalEntryID == nil {
			out = append(out, *tx)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memTransactionRepo) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, tx)
	return nil
}

func (r *memTransactionRepo) LinkJournalEntry(_ context.Context, txID, journalEntryID uuid.UUID) error {
	for _, tx := range r.rows {
		if tx.ID == txID {
			tx.JournalEntryID = &journalEntryID
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memTransactionRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, tx := range r.rows {
		if tx.ProductID == productID {
			n++
		}
	}
	return n, nil
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*ledger.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*ledger.Account{}}
}

func (r *memAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAccountRepo) FindByCode(_ context.Context, code string) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *memAccountRepo) FindAll(_ context.Context) ([]ledger.Account, error) {
	out := make([]ledger.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memAccountRepo) FindByType(_ context.Context, accountType ledger.AccountType) ([]ledger.Account, error) {
	out := make([]ledger.Account, 0)
	for _, a := range r.accounts {
		if a.Type == accountType {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAccountRepo) Save(_ context.Context, a *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.Code] = a
	return nil
}

func (r *memAccountRepo) SaveWithLock(ctx context.Context, a *ledger.Account) error {
	return r.Save(ctx, a)
}

func (r *memAccountRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.accounts[code]
	return ok, nil
}

type memJournalRepo struct {
	mu      sync.Mutex
	entries []*ledger.JournalEntry
}

func (r *memJournalRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memJournalRepo) FindByNumber(_ context.Context, number string) (*ledger.JournalEntry, error) {
	for _, e := range r.entries {
		if e.EntryNumber == number {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memJournalRepo) FindByReference(_ context.Context, reference string) ([]ledger.JournalEntry, error) {
	out := make([]ledger.JournalEntry, 0)
	for _, e := range r.entries {
		if e.Reference == reference {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memJournalRepo) FindByPeriod(_ context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[ledger.JournalEntry], error) {
	out := make([]ledger.JournalEntry, 0)
	for _, e := range r.entries {
		if !e.EntryDate.Before(start) && e.EntryDate.Before(end) {
			out = append(out, *e)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memJournalRepo) FindByAccount(_ context.Context, accountID uuid.UUID, filter shared.Filter) (shared.Paginated[ledger.JournalEntry], error) {
	out := make([]ledger.JournalEntry, 0)
	for _, e := range r.entries {
		for _, line := range e.Lines {
			if line.AccountID == accountID {
				out = append(out, *e)
				break
			}
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.Limit()), nil
}

func (r *memJournalRepo) Save(_ context.Context, e *ledger.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx := range r.entries {
		if r.entries[idx].ID == e.ID {
			r.entries[idx] = e
			return nil
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *memJournalRepo) MarkPostedThrough(_ context.Context, endDate, postedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if !e.IsPosted() && !e.EntryDate.After(endDate) {
			at := postedAt
			e.Status = ledger.EntryStatusPosted
			e.PostedAt = &at
			n++
		}
	}
	return n, nil
}

func (r *memJournalRepo) CountByPeriod(_ context.Context, start, end time.Time) (int64, error) {
	page, _ := r.FindByPeriod(context.Background(), start, end, shared.DefaultFilter())
	return page.Total, nil
}

type memSequences struct {
	mu     sync.Mutex
	values map[string]int64
}

func (s *memSequences) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]int64{}
	}
	s.values[name]++
	return s.values[name], nil
}

// ---- fixtures ----

type recorderFixture struct {
	recorder *RecorderService
	poster   *appledger.PostingService
	products *memProductRepo
	txs      *memTransactionRepo
	accounts *memAccountRepo
	journals *memJournalRepo
	product  *product.Product
}

func newRecorderFixture(t *testing.T) *recorderFixture {
	t.Helper()

	products := newMemProductRepo()
	txs := &memTransactionRepo{}
	accounts := newMemAccountRepo()
	journals := &memJournalRepo{}
	sequences := &memSequences{}

	poster := appledger.NewPostingService(accounts, journals, zap.NewNop())
	require.NoError(t, poster.SeedChartOfAccounts(context.Background()))

	scope := NewNoOpTransactionScope(products, txs, accounts, journals, sequences)
	recorder := NewRecorderService(scope, poster, zap.NewNop())

	p, err := product.NewProduct("SKU-001", "Widget", "", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	_, err = p.AddInventoryLocation("WH-A", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	_, err = p.AddInventoryLocation("WH-B", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	p.ClearDomainEvents()
	require.NoError(t, products.Save(context.Background(), p))

	return &recorderFixture{
		recorder: recorder,
		poster:   poster,
		products: products,
		txs:      txs,
		accounts: accounts,
		journals: journals,
		product:  p,
	}
}

func (f *recorderFixture) purchase(t *testing.T, qty, cost string) *inventory.InventoryTransaction {
	t.Helper()
	tx, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType:   inventory.MovementPurchase,
		ProductID:      f.product.ID,
		LocationCode:   "WH-A",
		Quantity:       requireDecimal(t, qty),
		UnitCost:       requireDecimal(t, cost),
		DocumentNumber: "PO-1001",
	})
	require.NoError(t, err)
	return tx
}

func (f *recorderFixture) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	a, err := f.accounts.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return a.Balance
}

func requireDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// ---- tests ----

func TestRecordPurchaseMovement(t *testing.T) {
	f := newRecorderFixture(t)

	tx := f.purchase(t, "10", "2.50")

	assert.Equal(t, "IT-00000001", tx.TransactionNumber)
	assert.True(t, f.product.TotalInStock().Equal(requireDecimal(t, "10")))

	t.Run("books a balanced draft journal entry", func(t *testing.T) {
		require.NotNil(t, tx.JournalEntryID)
		entry, err := f.journals.FindByID(context.Background(), *tx.JournalEntryID)
		require.NoError(t, err)
		assert.False(t, entry.IsPosted())
		assert.Equal(t, tx.TransactionNumber, entry.Reference)
		assert.True(t, entry.TotalDebits().Equal(requireDecimal(t, "25")))
		assert.NoError(t, entry.Validate())
	})

	t.Run("updates account balances", func(t *testing.T) {
		assert.True(t, f.balance(t, ledger.CodeInventory).Equal(requireDecimal(t, "25")))
		assert.True(t, f.balance(t, ledger.CodeAccountsPayable).Equal(requireDecimal(t, "25")))
	})
}

func TestReservationMovementsDoNotPost(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")
	orderID := uuid.New()

	reserve, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementReservation,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "4"),
		OrderID:      &orderID,
	})
	require.NoError(t, err)
	assert.Nil(t, reserve.JournalEntryID)
	assert.True(t, f.product.TotalReserved().Equal(requireDecimal(t, "4")))

	release, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementReservationRelease,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "4"),
		OrderID:      &orderID,
	})
	require.NoError(t, err)
	assert.Nil(t, release.JournalEntryID)

	t.Run("ledger untouched beyond the purchase", func(t *testing.T) {
		assert.True(t, f.balance(t, ledger.CodeInventory).Equal(requireDecimal(t, "25")))
	})

	t.Run("movements findable by order", func(t *testing.T) {
		rows, err := f.recorder.GetOrderTransactions(context.Background(), orderID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestFulfillmentPostsCOGS(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")
	orderID := uuid.New()

	_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementReservation,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "4"),
		OrderID:      &orderID,
	})
	require.NoError(t, err)

	tx, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementFulfillment,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "4"),
		OrderID:      &orderID,
	})
	require.NoError(t, err)

	require.NotNil(t, tx.JournalEntryID)
	assert.True(t, tx.Quantity.Equal(requireDecimal(t, "-4")))

	// cost defaults to the product's moving average (2.50): 4 * 2.50 = 10
	assert.True(t, f.balance(t, ledger.CodeCOGS).Equal(requireDecimal(t, "10")))
	assert.True(t, f.balance(t, ledger.CodeInventory).Equal(requireDecimal(t, "15")))
}

func TestLossMovement(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")

	tx, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementLoss,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "2"),
		Reason:       "water damage",
	})
	require.NoError(t, err)

	require.NotNil(t, tx.JournalEntryID)
	assert.True(t, f.balance(t, ledger.CodeInventoryLoss).Equal(requireDecimal(t, "5")))
	assert.True(t, f.balance(t, ledger.CodeInventory).Equal(requireDecimal(t, "20")))
}

func TestAdjustmentPostingBranchesOnSign(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")

	t.Run("positive adjustment books other income", func(t *testing.T) {
		_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
			MovementType: inventory.MovementAdjustment,
			ProductID:    f.product.ID,
			LocationCode: "WH-A",
			Quantity:     requireDecimal(t, "2"),
			Reason:       "cycle count",
		})
		require.NoError(t, err)
		assert.True(t, f.balance(t, ledger.CodeOtherIncome).Equal(requireDecimal(t, "5")))
	})

	t.Run("negative adjustment books other expense", func(t *testing.T) {
		_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
			MovementType: inventory.MovementAdjustment,
			ProductID:    f.product.ID,
			LocationCode: "WH-A",
			Quantity:     requireDecimal(t, "-3"),
			Reason:       "cycle count",
		})
		require.NoError(t, err)
		assert.True(t, f.balance(t, ledger.CodeOtherExpense).Equal(requireDecimal(t, "7.5")))
	})
}

func TestTransferMovement(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")

	tx, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType:   inventory.MovementTransfer,
		ProductID:      f.product.ID,
		LocationCode:   "WH-A",
		ToLocationCode: "WH-B",
		Quantity:       requireDecimal(t, "4"),
	})
	require.NoError(t, err)

	assert.Nil(t, tx.JournalEntryID)
	assert.Equal(t, "WH-A", tx.FromLocation)
	assert.Equal(t, "WH-B", tx.ToLocation)
	assert.True(t, f.product.TotalInStock().Equal(requireDecimal(t, "10")))
}

func TestInsufficientStockRejected(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "5", "2.50")

	_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementSale,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "6"),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.KindConsistency, domainErr.Kind)
}

func TestUnknownMovementTypeRejected(t *testing.T) {
	f := newRecorderFixture(t)
	_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementType("TELEPORT"),
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "1"),
	})
	assert.Error(t, err)
}

func TestTransactionNumbersAreSequential(t *testing.T) {
	f := newRecorderFixture(t)
	first := f.purchase(t, "1", "1.00")
	second := f.purchase(t, "1", "1.00")

	assert.Equal(t, "IT-00000001", first.TransactionNumber)
	assert.Equal(t, "IT-00000002", second.TransactionNumber)
}

func TestTrialBalanceStaysBalanced(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")

	_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementLoss,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "2"),
		Reason:       "damage",
	})
	require.NoError(t, err)

	_, err = f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType: inventory.MovementSale,
		ProductID:    f.product.ID,
		LocationCode: "WH-A",
		Quantity:     requireDecimal(t, "3"),
	})
	require.NoError(t, err)

	report, err := f.poster.GetTrialBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Balanced, "debit %s credit %s", report.TotalDebit, report.TotalCredit)
	assert.True(t, report.TotalDebit.IsPositive())
}

func TestGetProductTransactions(t *testing.T) {
	f := newRecorderFixture(t)
	f.purchase(t, "10", "2.50")
	f.purchase(t, "5", "3.00")

	page, err := f.recorder.GetProductTransactions(context.Background(), f.product.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "IT-00000002", page.Items[0].TransactionNumber, "newest first")
}

func TestClosePeriodPostsDraftEntries(t *testing.T) {
	f := newRecorderFixture(t)
	tx := f.purchase(t, "10", "2.50")

	closed, err := f.poster.ClosePeriod(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	entry, err := f.journals.FindByID(context.Background(), *tx.JournalEntryID)
	require.NoError(t, err)
	assert.True(t, entry.IsPosted())
	require.NotNil(t, entry.PostedAt)

	t.Run("posted entries reject new lines", func(t *testing.T) {
		err := entry.AddDebit(uuid.New(), ledger.CodeInventory, requireDecimal(t, "1"), "late line")
		assert.ErrorIs(t, err, shared.ErrEntryPosted)
	})

	t.Run("closing again is a no-op", func(t *testing.T) {
		closed, err := f.poster.ClosePeriod(context.Background(), time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, closed)
	})

	t.Run("entries after the cutoff stay in draft", func(t *testing.T) {
		later := f.purchase(t, "1", "2.50")
		closed, err := f.poster.ClosePeriod(context.Background(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.Zero(t, closed)

		entry, err := f.journals.FindByID(context.Background(), *later.JournalEntryID)
		require.NoError(t, err)
		assert.False(t, entry.IsPosted())
	})
}

func TestZeroValuePurchaseFailsPosting(t *testing.T) {
	f := newRecorderFixture(t)

	_, err := f.recorder.RecordMovement(context.Background(), RecordMovementCommand{
		MovementType:   inventory.MovementPurchase,
		ProductID:      f.product.ID,
		LocationCode:   "WH-A",
		Quantity:       requireDecimal(t, "10"),
		UnitCost:       decimal.Zero,
		DocumentNumber: "PO-0000",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidPostingAmount)
}
