package product

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/policy"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the aggregate root for catalog and stock operations. Stock is
// tracked per location; every stock mutation goes through the root so that
// invariants (no negative stock, reservations bounded by stock on hand) hold
// across all locations.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string            `gorm:"size:64;not null;uniqueIndex"`
	Name        string            `gorm:"size:255;not null"`
	Description string            `gorm:"size:2000"`
	Price       valueobject.Money `gorm:"type:decimal(18,4);not null"`
	AverageCost decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average
	// No default tag: gorm drops zero-valued fields that carry one, which
	// would persist a deactivated product as active on first save
	IsActive bool `gorm:"not null"`
	DeletedAt   gorm.DeletedAt    `gorm:"index"`

	// Associations - loaded lazily
	Locations []InventoryLocation `gorm:"foreignKey:ProductID;references:ID"`
	Reviews   []Review            `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with no stock
func NewProduct(sku, name, description string, price valueobject.Money) (*Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)

	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Description:       strings.TrimSpace(description),
		Price:             price,
		AverageCost:       decimal.Zero,
		IsActive:          true,
		Locations:         make([]InventoryLocation, 0),
		Reviews:           make([]Review, 0),
	}, nil
}

// UpdateDetails changes the product name and description
func (p *Product) UpdateDetails(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ChangePrice sets a new selling price
func (p *Product) ChangePrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate makes the product sellable again
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddInventoryLocation registers a new stock location for the product with an
// opening quantity
func (p *Product) AddInventoryLocation(code string, initialQty, reorderLevel decimal.Decimal) (*InventoryLocation, error) {
	for idx := range p.Locations {
		if p.Locations[idx].LocationCode == code {
			return nil, shared.NewDomainError("LOCATION_EXISTS", "Location already registered for this product")
		}
	}

	loc, err := NewInventoryLocation(p.ID, code, initialQty, reorderLevel)
	if err != nil {
		return nil, err
	}
	p.Locations = append(p.Locations, *loc)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return loc, nil
}

// findLocation returns the location with the given code or nil
func (p *Product) findLocation(code string) *InventoryLocation {
	for idx := range p.Locations {
		if p.Locations[idx].LocationCode == code {
			return &p.Locations[idx]
		}
	}
	return nil
}

// TotalInStock returns physical stock summed across all locations
func (p *Product) TotalInStock() decimal.Decimal {
	total := decimal.Zero
	for idx := range p.Locations {
		total = total.Add(p.Locations[idx].QuantityInStock)
	}
	return total
}

// TotalReserved returns reserved stock summed across all locations
func (p *Product) TotalReserved() decimal.Decimal {
	total := decimal.Zero
	for idx := range p.Locations {
		total = total.Add(p.Locations[idx].QuantityReserved)
	}
	return total
}

// TotalAvailable returns sellable stock summed across all locations
func (p *Product) TotalAvailable() decimal.Decimal {
	return p.TotalInStock().Sub(p.TotalReserved())
}

// ReserveStock places a hold on available stock at a location, typically for
// a pending order
func (p *Product) ReserveStock(locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanRecordReservation(quantity, loc.Available()); !ok {
		return shared.NewConsistencyError(shared.ErrInsufficientStock.Code, reason)
	}

	loc.QuantityReserved = loc.QuantityReserved.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReservedEvent(p, locationCode, quantity, orderID))
	return nil
}

// ReleaseReservedStock returns held stock to the available pool, typically on
// order cancellation
func (p *Product) ReleaseReservedStock(locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanFulfillReservation(quantity, loc.QuantityReserved); !ok {
		return shared.NewConsistencyError(shared.ErrInsufficientReservation.Code, reason)
	}

	loc.QuantityReserved = loc.QuantityReserved.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReleasedEvent(p, locationCode, quantity, orderID))
	return nil
}

// FulfillReservedStock consumes held stock on shipment. Both the physical and
// the reserved quantity decrease.
func (p *Product) FulfillReservedStock(locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanFulfillReservation(quantity, loc.QuantityReserved); !ok {
		return shared.NewConsistencyError(shared.ErrInsufficientReservation.Code, reason)
	}

	loc.QuantityInStock = loc.QuantityInStock.Sub(quantity)
	loc.QuantityReserved = loc.QuantityReserved.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockFulfilledEvent(p, locationCode, quantity, orderID))
	p.checkStockLevels(loc)
	return nil
}

// RecordPurchase receives purchased goods into a location and folds the unit
// cost into the moving weighted average.
func (p *Product) RecordPurchase(locationCode string, quantity, unitCost decimal.Decimal, documentNumber string) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanRecordPurchase(quantity, unitCost, locationCode, documentNumber); !ok {
		return shared.NewDomainError("INVALID_PURCHASE", reason)
	}

	// New Cost = (Old Quantity * Old Cost + New Quantity * New Cost) / (Old Quantity + New Quantity)
	oldQuantity := p.TotalInStock()
	if oldQuantity.IsZero() {
		p.AverageCost = unitCost
	} else {
		totalValue := oldQuantity.Mul(p.AverageCost).Add(quantity.Mul(unitCost))
		p.AverageCost = totalValue.Div(oldQuantity.Add(quantity)).Round(4)
	}

	loc.QuantityInStock = loc.QuantityInStock.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReceivedEvent(p, locationCode, quantity, unitCost, documentNumber))
	return nil
}

// RecordSaleReturn receives goods back from a customer into a location
func (p *Product) RecordSaleReturn(locationCode string, quantity decimal.Decimal) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanRecordReturn(quantity, decimal.Zero); !ok {
		return shared.NewDomainError("INVALID_RETURN", reason)
	}

	loc.QuantityInStock = loc.QuantityInStock.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReturnedEvent(p, locationCode, quantity, true))
	return nil
}

// RecordPurchaseReturn sends goods back to a supplier from available stock
func (p *Product) RecordPurchaseReturn(locationCode string, quantity, unitCost decimal.Decimal) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, reason := policy.CanRecordReturn(quantity, unitCost); !ok {
		return shared.NewDomainError("INVALID_RETURN", reason)
	}
	if quantity.GreaterThan(loc.Available()) {
		return shared.NewConsistencyError(shared.ErrInsufficientStock.Code, "return quantity exceeds available stock")
	}

	loc.QuantityInStock = loc.QuantityInStock.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockReturnedEvent(p, locationCode, quantity, false))
	p.checkStockLevels(loc)
	return nil
}

// RecordAdjustment applies a signed count correction at a location
func (p *Product) RecordAdjustment(locationCode string, delta decimal.Decimal, reason string) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, why := policy.CanRecordAdjustment(loc.QuantityInStock, delta, reason); !ok {
		return shared.NewConsistencyError("INVALID_ADJUSTMENT", why)
	}
	if delta.IsNegative() && loc.QuantityInStock.Add(delta).LessThan(loc.QuantityReserved) {
		return shared.NewConsistencyError(shared.ErrInsufficientStock.Code, "adjustment would drop stock below reserved quantity")
	}

	loc.QuantityInStock = loc.QuantityInStock.Add(delta)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, locationCode, delta, reason))
	p.checkStockLevels(loc)
	return nil
}

// RecordLoss writes off damaged or missing stock at a location
func (p *Product) RecordLoss(locationCode string, quantity decimal.Decimal, reason string) error {
	loc := p.findLocation(locationCode)
	if loc == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown inventory location")
	}

	if ok, why := policy.CanRecordLoss(quantity, loc.QuantityInStock, reason); !ok {
		return shared.NewConsistencyError("INVALID_LOSS", why)
	}
	if loc.QuantityInStock.Sub(quantity).LessThan(loc.QuantityReserved) {
		return shared.NewConsistencyError(shared.ErrInsufficientStock.Code, "loss would drop stock below reserved quantity")
	}

	loc.QuantityInStock = loc.QuantityInStock.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockWrittenOffEvent(p, locationCode, quantity, reason))
	p.checkStockLevels(loc)
	return nil
}

// RecordTransfer moves unreserved stock between two locations of this product
func (p *Product) RecordTransfer(fromCode, toCode string, quantity decimal.Decimal) error {
	from := p.findLocation(fromCode)
	if from == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown source location")
	}
	to := p.findLocation(toCode)
	if to == nil {
		return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown destination location")
	}

	if ok, reason := policy.CanRecordTransfer(quantity, from.Available(), fromCode, toCode); !ok {
		return shared.NewConsistencyError("INVALID_TRANSFER", reason)
	}

	from.QuantityInStock = from.QuantityInStock.Sub(quantity)
	to.QuantityInStock = to.QuantityInStock.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockTransferredEvent(p, fromCode, toCode, quantity))
	p.checkStockLevels(from)
	return nil
}

// checkStockLevels raises low-stock and out-of-stock events after a stock
// decrease. A product with zero available stock everywhere is deactivated so
// it disappears from sale until restocked.
func (p *Product) checkStockLevels(loc *InventoryLocation) {
	if loc.IsBelowReorderLevel() {
		p.AddDomainEvent(NewLowStockAlertEvent(p, loc))
	}
	if p.TotalAvailable().LessThanOrEqual(decimal.Zero) && p.IsActive {
		p.IsActive = false
		p.AddDomainEvent(NewProductOutOfStockEvent(p))
	}
}

// AddReview attaches a pending customer review
func (p *Product) AddReview(customerID uuid.UUID, rating int, comment string) (*Review, error) {
	review, err := NewReview(p.ID, customerID, rating, comment)
	if err != nil {
		return nil, err
	}
	p.Reviews = append(p.Reviews, *review)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewReviewAddedEvent(p, review))
	return review, nil
}

// ApproveReview approves a pending review by ID
func (p *Product) ApproveReview(reviewID uuid.UUID) error {
	for idx := range p.Reviews {
		if p.Reviews[idx].ID == reviewID {
			return p.Reviews[idx].Approve()
		}
	}
	return shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
}

// RejectReview rejects a pending review by ID
func (p *Product) RejectReview(reviewID uuid.UUID) error {
	for idx := range p.Reviews {
		if p.Reviews[idx].ID == reviewID {
			return p.Reviews[idx].Reject()
		}
	}
	return shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
}

// AverageRating returns the mean rating of approved reviews, zero when none
func (p *Product) AverageRating() decimal.Decimal {
	sum, count := 0, 0
	for idx := range p.Reviews {
		if p.Reviews[idx].Status == ReviewStatusApproved {
			sum += p.Reviews[idx].Rating
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(2)
}
