package product

import (
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLocation holds per-location stock figures for a product. It is an
// entity owned by the Product aggregate; all mutations go through the root.
type InventoryLocation struct {
	shared.BaseEntity
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_location_product_code,priority:1"`
	LocationCode     string          `gorm:"size:64;not null;uniqueIndex:idx_location_product_code,priority:2"`
	QuantityInStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Physical quantity on hand
	QuantityReserved decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Held for pending orders
	ReorderLevel     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert threshold
}

// TableName returns the table name for GORM
func (InventoryLocation) TableName() string {
	return "inventory_locations"
}

// NewInventoryLocation creates a new location record for a product. The
// initial quantity is an opening balance, not a movement; it carries no cost.
func NewInventoryLocation(productID uuid.UUID, code string, initialQty, reorderLevel decimal.Decimal) (*InventoryLocation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location code cannot be empty")
	}
	if initialQty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}
	if reorderLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "Reorder level cannot be negative")
	}

	return &InventoryLocation{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		LocationCode:     code,
		QuantityInStock:  initialQty,
		QuantityReserved: decimal.Zero,
		ReorderLevel:     reorderLevel,
	}, nil
}

// Available returns the quantity that can still be sold or reserved
// (on hand minus reserved).
func (l *InventoryLocation) Available() decimal.Decimal {
	return l.QuantityInStock.Sub(l.QuantityReserved)
}

// IsBelowReorderLevel returns true when available stock has dropped to or
// below the configured threshold. A zero threshold disables the alert.
func (l *InventoryLocation) IsBelowReorderLevel() bool {
	return l.ReorderLevel.GreaterThan(decimal.Zero) && l.Available().LessThanOrEqual(l.ReorderLevel)
}
