package ledger

import (
	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PostingRule names the accounts a movement debits and credits
type PostingRule struct {
	DebitCode  string
	CreditCode string
}

// postingRules maps each accounting-effective movement type to its accounts.
// Adjustments are resolved separately because the accounts depend on the sign.
var postingRules = map[inventory.MovementType]PostingRule{
	inventory.MovementPurchase:       {DebitCode: CodeInventory, CreditCode: CodeAccountsPayable},
	inventory.MovementSale:           {DebitCode: CodeCOGS, CreditCode: CodeInventory},
	inventory.MovementFulfillment:    {DebitCode: CodeCOGS, CreditCode: CodeInventory},
	inventory.MovementSaleReturn:     {DebitCode: CodeInventory, CreditCode: CodeCOGS},
	inventory.MovementPurchaseReturn: {DebitCode: CodeAccountsPayable, CreditCode: CodeInventory},
	inventory.MovementLoss:           {DebitCode: CodeInventoryLoss, CreditCode: CodeInventory},
}

// RuleFor resolves the posting rule for a movement. The second return value is
// false when the movement has no accounting effect. For adjustments, a stock
// increase books into other income and a decrease into other expense.
func RuleFor(movementType inventory.MovementType, quantity decimal.Decimal) (PostingRule, bool) {
	if !movementType.HasAccountingEffect() {
		return PostingRule{}, false
	}
	if movementType == inventory.MovementAdjustment {
		if quantity.IsPositive() {
			return PostingRule{DebitCode: CodeInventory, CreditCode: CodeOtherIncome}, true
		}
		return PostingRule{DebitCode: CodeOtherExpense, CreditCode: CodeInventory}, true
	}
	rule, ok := postingRules[movementType]
	return rule, ok
}
