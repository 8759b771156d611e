// Package inventory contains the append-only movement journal. Every stock
// change recorded by the product aggregate is mirrored here as an immutable
// InventoryTransaction, numbered sequentially and, when the movement has a
// financial effect, linked to the journal entry that booked it.
package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementPurchase           MovementType = "PURCHASE"
	MovementSale               MovementType = "SALE"
	MovementSaleReturn         MovementType = "SALE_RETURN"
	MovementPurchaseReturn     MovementType = "PURCHASE_RETURN"
	MovementAdjustment         MovementType = "ADJUSTMENT"
	MovementTransfer           MovementType = "TRANSFER"
	MovementLoss               MovementType = "LOSS"
	MovementReservation        MovementType = "RESERVATION"
	MovementReservationRelease MovementType = "RESERVATION_RELEASE"
	MovementFulfillment        MovementType = "FULFILLMENT"
)

// allMovementTypes is the closed set of valid movement types
var allMovementTypes = map[MovementType]struct{}{
	MovementPurchase:           {},
	MovementSale:               {},
	MovementSaleReturn:         {},
	MovementPurchaseReturn:     {},
	MovementAdjustment:         {},
	MovementTransfer:           {},
	MovementLoss:               {},
	MovementReservation:        {},
	MovementReservationRelease: {},
	MovementFulfillment:        {},
}

// IsValid reports whether the movement type is known
func (t MovementType) IsValid() bool {
	_, ok := allMovementTypes[t]
	return ok
}

// HasAccountingEffect reports whether movements of this type produce a journal
// entry. Reservations only shift stock between buckets and transfers only move
// it between locations, so neither touches the books.
func (t MovementType) HasAccountingEffect() bool {
	switch t {
	case MovementReservation, MovementReservationRelease, MovementTransfer:
		return false
	default:
		return true
	}
}

// Direction returns the sign physical stock moves in for this type: +1 in,
// -1 out, 0 when the type does not change net physical stock (or, for
// adjustments, carries its own sign).
func (t MovementType) Direction() int {
	switch t {
	case MovementPurchase, MovementSaleReturn:
		return 1
	case MovementSale, MovementPurchaseReturn, MovementLoss, MovementFulfillment:
		return -1
	default:
		return 0
	}
}

// FormatTransactionNumber renders an allocated sequence value as a
// human-facing transaction number
func FormatTransactionNumber(seq int64) string {
	return fmt.Sprintf("IT-%08d", seq)
}

// InventoryTransaction is one immutable line in the movement journal. It is
// append-only: there are no mutating operations besides linking the journal
// entry produced when the movement was posted.
type InventoryTransaction struct {
	shared.BaseEntity
	TransactionNumber string          `gorm:"size:32;not null;uniqueIndex"`
	MovementType      MovementType    `gorm:"size:32;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU               string          `gorm:"size:64;not null"`
	ProductName       string          `gorm:"size:255;not null"`
	FromLocation      string          `gorm:"size:64"`
	ToLocation        string          `gorm:"size:64"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: positive in, negative out
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OrderID           *uuid.UUID      `gorm:"type:uuid;index"`
	DocumentNumber    string          `gorm:"size:64"`
	JournalEntryID    *uuid.UUID      `gorm:"type:uuid;index"`
	Reason            string          `gorm:"size:500"`
	CreatedBy         string          `gorm:"size:128"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewTransactionParams carries the inputs for recording a movement
type NewTransactionParams struct {
	MovementType   MovementType
	ProductID      uuid.UUID
	SKU            string
	ProductName    string
	FromLocation   string
	ToLocation     string
	Quantity       decimal.Decimal // Caller-signed for adjustments, absolute otherwise
	UnitCost       decimal.Decimal
	OrderID        *uuid.UUID
	DocumentNumber string
	Reason         string
	CreatedBy      string
}

// NewInventoryTransaction builds an immutable movement record. The quantity is
// normalized to the type's direction; adjustments keep the caller's sign.
func NewInventoryTransaction(transactionNumber string, params NewTransactionParams) (*InventoryTransaction, error) {
	if strings.TrimSpace(transactionNumber) == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if !params.MovementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if params.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if params.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if params.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if params.MovementType == MovementTransfer && (params.FromLocation == "" || params.ToLocation == "") {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Transfers require both source and destination locations")
	}

	quantity := params.Quantity
	if params.MovementType != MovementAdjustment {
		quantity = quantity.Abs()
		if params.MovementType.Direction() < 0 {
			quantity = quantity.Neg()
		}
	}

	return &InventoryTransaction{
		BaseEntity:        shared.NewBaseEntity(),
		TransactionNumber: transactionNumber,
		MovementType:      params.MovementType,
		ProductID:         params.ProductID,
		SKU:               params.SKU,
		ProductName:       params.ProductName,
		FromLocation:      params.FromLocation,
		ToLocation:        params.ToLocation,
		Quantity:          quantity,
		UnitCost:          params.UnitCost,
		TotalCost:         quantity.Abs().Mul(params.UnitCost).Round(4),
		OrderID:           params.OrderID,
		DocumentNumber:    params.DocumentNumber,
		Reason:            params.Reason,
		CreatedBy:         params.CreatedBy,
	}, nil
}

// LinkJournalEntry records the journal entry that booked this movement.
// It may be set exactly once.
func (t *InventoryTransaction) LinkJournalEntry(journalEntryID uuid.UUID) error {
	if t.JournalEntryID != nil {
		return shared.NewDomainError("ALREADY_POSTED", "Transaction is already linked to a journal entry")
	}
	if journalEntryID == uuid.Nil {
		return shared.NewDomainError("INVALID_JOURNAL_ENTRY", "Journal entry ID cannot be empty")
	}
	t.JournalEntryID = &journalEntryID
	t.UpdatedAt = time.Now()
	return nil
}

// IsInbound reports whether the movement increased physical stock
func (t *InventoryTransaction) IsInbound() bool {
	return t.Quantity.IsPositive() && t.MovementType != MovementReservation && t.MovementType != MovementReservationRelease
}
