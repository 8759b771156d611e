package product

import (
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeStockReserved     = "StockReserved"
	EventTypeStockReleased     = "StockReleased"
	EventTypeStockFulfilled    = "StockFulfilled"
	EventTypeStockReceived     = "StockReceived"
	EventTypeStockReturned     = "StockReturned"
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeStockTransferred  = "StockTransferred"
	EventTypeStockWrittenOff   = "StockWrittenOff"
	EventTypeLowStockAlert     = "LowStockAlert"
	EventTypeProductOutOfStock = "ProductOutOfStock"
	EventTypeReviewAdded       = "ReviewAdded"
)

// StockReservedEvent is raised when stock is put on hold for an order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(p *Product, locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		OrderID:         orderID,
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when a reservation is released back to available
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(p *Product, locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		OrderID:         orderID,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// StockFulfilledEvent is raised when reserved stock leaves the building
type StockFulfilledEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
}

// NewStockFulfilledEvent creates a new StockFulfilledEvent
func NewStockFulfilledEvent(p *Product, locationCode string, quantity decimal.Decimal, orderID *uuid.UUID) *StockFulfilledEvent {
	return &StockFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockFulfilled, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		OrderID:         orderID,
	}
}

// EventType returns the event type name
func (e *StockFulfilledEvent) EventType() string {
	return EventTypeStockFulfilled
}

// StockReceivedEvent is raised when purchased goods are received into a location
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	SKU            string          `json:"sku"`
	LocationCode   string          `json:"location_code"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	DocumentNumber string          `json:"document_number"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(p *Product, locationCode string, quantity, unitCost decimal.Decimal, documentNumber string) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		UnitCost:        unitCost,
		DocumentNumber:  documentNumber,
	}
}

// EventType returns the event type name
func (e *StockReceivedEvent) EventType() string {
	return EventTypeStockReceived
}

// StockReturnedEvent is raised for both customer returns (stock in) and
// returns to suppliers (stock out); Inbound distinguishes the direction.
type StockReturnedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Inbound      bool            `json:"inbound"`
}

// NewStockReturnedEvent creates a new StockReturnedEvent
func NewStockReturnedEvent(p *Product, locationCode string, quantity decimal.Decimal, inbound bool) *StockReturnedEvent {
	return &StockReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReturned, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		Inbound:         inbound,
	}
}

// EventType returns the event type name
func (e *StockReturnedEvent) EventType() string {
	return EventTypeStockReturned
}

// StockAdjustedEvent is raised when a count correction is applied
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Delta        decimal.Decimal `json:"delta"`
	Reason       string          `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(p *Product, locationCode string, delta decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Delta:           delta,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockTransferredEvent is raised when stock moves between locations
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(p *Product, from, to string, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		FromLocation:    from,
		ToLocation:      to,
		Quantity:        quantity,
	}
}

// EventType returns the event type name
func (e *StockTransferredEvent) EventType() string {
	return EventTypeStockTransferred
}

// StockWrittenOffEvent is raised when damaged or missing stock is written off
type StockWrittenOffEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	LocationCode string          `json:"location_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
}

// NewStockWrittenOffEvent creates a new StockWrittenOffEvent
func NewStockWrittenOffEvent(p *Product, locationCode string, quantity decimal.Decimal, reason string) *StockWrittenOffEvent {
	return &StockWrittenOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockWrittenOff, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		LocationCode:    locationCode,
		Quantity:        quantity,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockWrittenOffEvent) EventType() string {
	return EventTypeStockWrittenOff
}

// LowStockAlertEvent is raised when available stock at a location drops below
// its reorder level
type LowStockAlertEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	LocationCode string          `json:"location_code"`
	Available    decimal.Decimal `json:"available"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewLowStockAlertEvent creates a new LowStockAlertEvent
func NewLowStockAlertEvent(p *Product, loc *InventoryLocation) *LowStockAlertEvent {
	return &LowStockAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockAlert, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		ProductName:     p.Name,
		LocationCode:    loc.LocationCode,
		Available:       loc.Available(),
		ReorderLevel:    loc.ReorderLevel,
	}
}

// EventType returns the event type name
func (e *LowStockAlertEvent) EventType() string {
	return EventTypeLowStockAlert
}

// ProductOutOfStockEvent is raised when total available stock across all
// locations reaches zero
type ProductOutOfStockEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	SKU         string    `json:"sku"`
	ProductName string    `json:"product_name"`
}

// NewProductOutOfStockEvent creates a new ProductOutOfStockEvent
func NewProductOutOfStockEvent(p *Product) *ProductOutOfStockEvent {
	return &ProductOutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductOutOfStock, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		ProductName:     p.Name,
	}
}

// EventType returns the event type name
func (e *ProductOutOfStockEvent) EventType() string {
	return EventTypeProductOutOfStock
}

// ReviewAddedEvent is raised when a customer submits a review
type ReviewAddedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	ReviewID   uuid.UUID `json:"review_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
}

// NewReviewAddedEvent creates a new ReviewAddedEvent
func NewReviewAddedEvent(p *Product, review *Review) *ReviewAddedEvent {
	return &ReviewAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewAdded, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		ReviewID:        review.ID,
		CustomerID:      review.CustomerID,
		Rating:          review.Rating,
	}
}

// EventType returns the event type name
func (e *ReviewAddedEvent) EventType() string {
	return EventTypeReviewAdded
}
