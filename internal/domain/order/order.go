package order

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/policy"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = Status(policy.OrderStatusPending)
	StatusProcessing Status = Status(policy.OrderStatusProcessing)
	StatusConfirmed  Status = Status(policy.OrderStatusConfirmed)
	StatusShipped    Status = Status(policy.OrderStatusShipped)
	StatusDelivered  Status = Status(policy.OrderStatusDelivered)
	StatusCancelled  Status = Status(policy.OrderStatusCancelled)
	StatusRefunded   Status = Status(policy.OrderStatusRefunded)
)

// CanTransitionTo reports whether the status machine permits moving to target
func (s Status) CanTransitionTo(target Status) bool {
	return policy.IsValidOrderStatusTransition(string(s), string(target))
}

// IsTerminal reports whether the order can never change status again
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// OrderItem is a line item within an order. Product details are denormalized
// at the time the item is added so later catalog edits do not rewrite history.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	SKU         string            `gorm:"size:64;not null"`
	ProductName string            `gorm:"size:255;not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Quantity    int               `gorm:"not null"`
	Discount    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"` // Absolute discount on the line
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns unit price times quantity minus the line discount
func (i *OrderItem) LineTotal() decimal.Decimal {
	gross := i.UnitPrice.Amount().Mul(decimal.NewFromInt(int64(i.Quantity)))
	return gross.Sub(i.Discount)
}

// Order is the aggregate root for the order lifecycle. Line items and totals
// may only change while the order is pending; after that only status
// transitions defined by the lifecycle policy are allowed.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status          Status              `gorm:"size:16;not null;default:'PENDING';index"`
	SubTotal        valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost    valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	CouponCode      string              `gorm:"size:64"`
	PaymentMethod   string              `gorm:"size:32"`
	TrackingNumber  string              `gorm:"size:128"`
	ShippingAddress valueobject.Address `gorm:"serializer:json"`
	BillingAddress  valueobject.Address `gorm:"serializer:json"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
	CancelReason    string `gorm:"size:500"`

	// Associations - loaded lazily
	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order for a customer
func NewOrder(customerID uuid.UUID) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Status:            StatusPending,
		SubTotal:          valueobject.ZeroUSD(),
		TaxAmount:         valueobject.ZeroUSD(),
		ShippingCost:      valueobject.ZeroUSD(),
		DiscountAmount:    valueobject.ZeroUSD(),
		TotalAmount:       valueobject.ZeroUSD(),
		Items:             make([]OrderItem, 0),
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ensureMutable guards item and total edits behind the pending status
func (o *Order) ensureMutable() error {
	if o.Status != StatusPending {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Order can only be modified while pending")
	}
	return nil
}

// findItem returns the index of the line item for a product, or -1
func (o *Order) findItem(productID uuid.UUID) int {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return idx
		}
	}
	return -1
}

// AddItem adds a line item. Adding the same product again increases the
// existing line's quantity.
func (o *Order) AddItem(productID uuid.UUID, sku, productName string, unitPrice valueobject.Money, quantity int) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unitPrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}

	if idx := o.findItem(productID); idx >= 0 {
		o.Items[idx].Quantity += quantity
		o.Items[idx].UpdatedAt = time.Now()
	} else {
		if ok, reason := policy.IsValidItemCount(len(o.Items) + 1); !ok {
			return shared.NewDomainError("TOO_MANY_ITEMS", reason)
		}
		o.Items = append(o.Items, OrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     o.ID,
			ProductID:   productID,
			SKU:         sku,
			ProductName: productName,
			UnitPrice:   unitPrice,
			Quantity:    quantity,
			Discount:    decimal.Zero,
		})
	}

	o.recalculateTotals()
	return nil
}

// RemoveItem removes a line item by product
func (o *Order) RemoveItem(productID uuid.UUID) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	idx := o.findItem(productID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the order")
	}

	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	o.recalculateTotals()
	return nil
}

// UpdateItemQuantity changes the quantity of an existing line item
func (o *Order) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive; remove the item instead")
	}
	idx := o.findItem(productID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the order")
	}

	o.Items[idx].Quantity = quantity
	o.Items[idx].UpdatedAt = time.Now()
	o.recalculateTotals()
	return nil
}

// ApplyItemDiscount applies an absolute discount to a single line item
func (o *Order) ApplyItemDiscount(productID uuid.UUID, discount decimal.Decimal) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	idx := o.findItem(productID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the order")
	}
	gross := o.Items[idx].UnitPrice.Amount().Mul(decimal.NewFromInt(int64(o.Items[idx].Quantity)))
	if discount.GreaterThan(gross) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the line total")
	}

	o.Items[idx].Discount = discount
	o.Items[idx].UpdatedAt = time.Now()
	o.recalculateTotals()
	return nil
}

// ApplyCoupon records a coupon and its order-level discount amount
func (o *Order) ApplyCoupon(code string, discount valueobject.Money) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_COUPON", "Coupon code cannot be empty")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	o.CouponCode = code
	o.DiscountAmount = discount
	o.recalculateTotals()
	return nil
}

// SetShipping sets the shipping address and cost
func (o *Order) SetShipping(address valueobject.Address, cost valueobject.Money) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if address.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}

	o.ShippingAddress = address
	o.ShippingCost = cost
	o.recalculateTotals()
	return nil
}

// SetBillingAddress sets the billing address
func (o *Order) SetBillingAddress(address valueobject.Address) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if address.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Billing address is required")
	}

	o.BillingAddress = address
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetTaxAmount sets the tax charged on the order
func (o *Order) SetTaxAmount(tax valueobject.Money) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if tax.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}

	o.TaxAmount = tax
	o.recalculateTotals()
	return nil
}

// SetPaymentMethod records how the order will be paid
func (o *Order) SetPaymentMethod(method string) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}

	o.PaymentMethod = method
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// recalculateTotals re-sums every line item rather than patching totals
// incrementally, so totals can never drift from the items.
func (o *Order) recalculateTotals() {
	subTotal := decimal.Zero
	for idx := range o.Items {
		subTotal = subTotal.Add(o.Items[idx].LineTotal())
	}
	o.SubTotal = valueobject.NewMoneyUSD(subTotal)

	total := subTotal.
		Add(o.TaxAmount.Amount()).
		Add(o.ShippingCost.Amount()).
		Sub(o.DiscountAmount.Amount())
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.TotalAmount = valueobject.NewMoneyUSD(total)

	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// transitionTo performs a validated status change and emits the change event
func (o *Order) transitionTo(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Cannot transition order from "+string(o.Status)+" to "+string(target))
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))
	return nil
}

// Validate checks that the order is complete enough to be confirmed
func (o *Order) Validate() error {
	if ok, reason := policy.IsValidItemCount(len(o.Items)); !ok {
		return shared.NewDomainError("INVALID_ORDER", reason)
	}
	if ok, reason := policy.IsValidOrderAmount(o.TotalAmount.Amount()); !ok {
		return shared.NewDomainError("INVALID_ORDER", reason)
	}
	if o.ShippingAddress.IsZero() {
		return shared.NewDomainError("INVALID_ORDER", "Shipping address is required")
	}
	if o.PaymentMethod == "" {
		return shared.NewDomainError("INVALID_ORDER", "Payment method is required")
	}
	return nil
}

// Process moves a pending order into payment processing
func (o *Order) Process() error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.transitionTo(StatusProcessing)
}

// Confirm locks the order in after validation and (optionally) payment
func (o *Order) Confirm() error {
	if o.Status == StatusPending {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	if err := o.transitionTo(StatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	return nil
}

// Ship marks the order as shipped with a carrier tracking number
func (o *Order) Ship(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}
	if err := o.transitionTo(StatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	o.TrackingNumber = trackingNumber

	o.AddDomainEvent(NewOrderShippedEvent(o, trackingNumber))
	return nil
}

// Deliver confirms delivery of a shipped order
func (o *Order) Deliver() error {
	if err := o.transitionTo(StatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))
	return nil
}

// Cancel cancels the order. Allowed from any pre-shipment status.
func (o *Order) Cancel(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	if err := o.transitionTo(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// CancelByCustomer cancels on behalf of the customer, who is additionally
// bound to the cancellation window.
func (o *Order) CancelByCustomer(reason string) error {
	if !policy.IsWithinCancellationWindow(o.CreatedAt, time.Now()) {
		return shared.NewDomainError("CANCELLATION_WINDOW_CLOSED", "Orders can only be cancelled within 24 hours of placement")
	}
	return o.Cancel(reason)
}

// Refund refunds a delivered order within the refund window
func (o *Order) Refund(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Refund reason is required")
	}
	if ok, why := policy.CanRefundOrder(string(o.Status), o.DeliveredAt, time.Now()); !ok {
		return shared.NewDomainError("REFUND_NOT_ALLOWED", why)
	}
	if err := o.transitionTo(StatusRefunded); err != nil {
		return err
	}
	now := time.Now()
	o.RefundedAt = &now

	o.AddDomainEvent(NewOrderRefundedEvent(o, reason))
	return nil
}

// TotalQuantity returns the summed quantity across all line items
func (o *Order) TotalQuantity() int {
	total := 0
	for idx := range o.Items {
		total += o.Items[idx].Quantity
	}
	return total
}
