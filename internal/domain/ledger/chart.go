package ledger

// Well-known account codes used by the posting rules
const (
	CodeAssets          = "1000"
	CodeInventory       = "1200"
	CodeLiabilities     = "2000"
	CodeAccountsPayable = "2100"
	CodeEquity          = "3000"
	CodeRevenue         = "4000"
	CodeOtherIncome     = "4900"
	CodeExpenses        = "5000"
	CodeCOGS            = "5100"
	CodeOtherExpense    = "6900"
	CodeInventoryLoss   = "6950"
)

// AccountSeed describes one account in the default chart
type AccountSeed struct {
	Code       string
	Name       string
	Type       AccountType
	ParentCode string
	Analytic   bool
}

// DefaultChartOfAccounts returns the minimal chart the posting rules depend
// on. Seeding is idempotent: existing codes are left untouched. Only the leaf
// accounts are analytic; the roots exist to give the chart its hierarchy.
func DefaultChartOfAccounts() []AccountSeed {
	return []AccountSeed{
		{Code: CodeAssets, Name: "Assets", Type: AccountTypeAsset},
		{Code: CodeInventory, Name: "Inventory", Type: AccountTypeAsset, ParentCode: CodeAssets, Analytic: true},
		{Code: CodeLiabilities, Name: "Liabilities", Type: AccountTypeLiability},
		{Code: CodeAccountsPayable, Name: "Accounts Payable", Type: AccountTypeLiability, ParentCode: CodeLiabilities, Analytic: true},
		{Code: CodeEquity, Name: "Equity", Type: AccountTypeEquity},
		{Code: CodeRevenue, Name: "Revenue", Type: AccountTypeRevenue},
		{Code: CodeOtherIncome, Name: "Other Income", Type: AccountTypeRevenue, ParentCode: CodeRevenue, Analytic: true},
		{Code: CodeExpenses, Name: "Expenses", Type: AccountTypeExpense},
		{Code: CodeCOGS, Name: "Cost of Goods Sold", Type: AccountTypeExpense, ParentCode: CodeExpenses, Analytic: true},
		{Code: CodeOtherExpense, Name: "Other Expense", Type: AccountTypeExpense, ParentCode: CodeExpenses, Analytic: true},
		{Code: CodeInventoryLoss, Name: "Inventory Loss", Type: AccountTypeExpense, ParentCode: CodeExpenses, Analytic: true},
	}
}

// SeedFor looks up a default chart entry by account code
func SeedFor(code string) (AccountSeed, bool) {
	for _, seed := range DefaultChartOfAccounts() {
		if seed.Code == code {
			return seed, true
		}
	}
	return AccountSeed{}, false
}
