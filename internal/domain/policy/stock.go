// Package policy contains the pure validation rules for stock movements and
// order lifecycle decisions. Functions here are side-effect free and perform
// no I/O; every predicate returns whether the operation is allowed plus a
// human-readable reason when it is not.
package policy

import (
	"github.com/shopspring/decimal"
)

// CanRecordPurchase validates a purchase receipt into a location.
func CanRecordPurchase(quantity, unitCost decimal.Decimal, location, documentNumber string) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "purchase quantity must be positive"
	}
	if unitCost.IsNegative() {
		return false, "unit cost cannot be negative"
	}
	if location == "" {
		return false, "location is required"
	}
	if documentNumber == "" {
		return false, "document number is required"
	}
	return true, ""
}

// CanRecordReservation validates placing a soft hold on available stock.
func CanRecordReservation(quantity, available decimal.Decimal) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "reservation quantity must be positive"
	}
	if quantity.GreaterThan(available) {
		return false, "reservation quantity exceeds available stock"
	}
	return true, ""
}

// CanFulfillReservation validates consuming previously reserved stock.
// It also covers releasing a reservation, which has the same bound.
func CanFulfillReservation(quantity, reserved decimal.Decimal) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "quantity must be positive"
	}
	if quantity.GreaterThan(reserved) {
		return false, "quantity exceeds reserved stock"
	}
	return true, ""
}

// CanRecordAdjustment validates a signed count correction against current stock.
func CanRecordAdjustment(currentStock, delta decimal.Decimal, reason string) (bool, string) {
	if reason == "" {
		return false, "adjustment reason is required"
	}
	if currentStock.Add(delta).IsNegative() {
		return false, "adjustment would drive stock negative"
	}
	return true, ""
}

// CanRecordLoss validates writing off damaged or missing stock.
func CanRecordLoss(quantity, inStock decimal.Decimal, reason string) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "loss quantity must be positive"
	}
	if quantity.GreaterThan(inStock) {
		return false, "loss quantity exceeds stock on hand"
	}
	if reason == "" {
		return false, "loss reason is required"
	}
	return true, ""
}

// CanRecordTransfer validates moving stock between two locations.
// Only unreserved stock may leave the source location.
func CanRecordTransfer(quantity, sourceAvailable decimal.Decimal, source, destination string) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "transfer quantity must be positive"
	}
	if source == destination {
		return false, "source and destination locations must differ"
	}
	if quantity.GreaterThan(sourceAvailable) {
		return false, "transfer quantity exceeds available stock at source"
	}
	return true, ""
}

// CanRecordReturn validates both sale returns and purchase returns.
func CanRecordReturn(quantity, unitCost decimal.Decimal) (bool, string) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false, "return quantity must be positive"
	}
	if unitCost.IsNegative() {
		return false, "unit cost cannot be negative"
	}
	return true, ""
}
