// Package order contains the application service that drives the order
// lifecycle and its stock side effects: placing an order reserves stock,
// shipping consumes the reservations, cancelling releases them and refunding
// returns the goods, each recorded through the movement recorder.
package order

import (
	"context"
	"strings"
	"time"

	appinventory "github.com/commerce/backend/internal/application/inventory"
	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/policy"
	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService orchestrates orders and their stock movements
type OrderService struct {
	orderRepo   order.OrderRepository
	productRepo product.ProductRepository
	recorder    *appinventory.RecorderService
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo product.ProductRepository,
	recorder *appinventory.RecorderService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		recorder:    recorder,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used to emit domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	o.ClearDomainEvents()
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	ProductID    uuid.UUID
	Quantity     int
	LocationCode string
}

// PlaceOrderCommand carries the inputs for placing an order
type PlaceOrderCommand struct {
	CustomerID      uuid.UUID
	Items           []OrderItemInput
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	PaymentMethod   string
	CouponCode      string
	CouponDiscount  decimal.Decimal
}

// PlaceOrder creates a pending order priced from the catalog and reserves
// stock for every line. If any reservation fails, reservations already taken
// are released and the order is not saved.
func (s *OrderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	o, err := order.NewOrder(cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	for _, item := range cmd.Items {
		p, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+p.SKU+" is not for sale")
		}
		if err := o.AddItem(p.ID, p.SKU, p.Name, p.Price, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := o.SetShipping(cmd.ShippingAddress, valueobject.NewMoneyUSD(cmd.ShippingCost)); err != nil {
		return nil, err
	}
	if !cmd.BillingAddress.IsZero() {
		if err := o.SetBillingAddress(cmd.BillingAddress); err != nil {
			return nil, err
		}
	}
	if !cmd.TaxAmount.IsZero() {
		if err := o.SetTaxAmount(valueobject.NewMoneyUSD(cmd.TaxAmount)); err != nil {
			return nil, err
		}
	}
	if err := o.SetPaymentMethod(cmd.PaymentMethod); err != nil {
		return nil, err
	}
	if cmd.CouponCode != "" {
		if err := o.ApplyCoupon(cmd.CouponCode, valueobject.NewMoneyUSD(cmd.CouponDiscount)); err != nil {
			return nil, err
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// Reserve stock per line; roll back earlier reservations on failure.
	reserved := make([]appinventory.RecordMovementCommand, 0, len(cmd.Items))
	orderID := o.ID
	for _, item := range cmd.Items {
		reserveCmd := appinventory.RecordMovementCommand{
			MovementType: inventory.MovementReservation,
			ProductID:    item.ProductID,
			LocationCode: item.LocationCode,
			Quantity:     decimal.NewFromInt(int64(item.Quantity)),
			OrderID:      &orderID,
		}
		if _, err := s.recorder.RecordMovement(ctx, reserveCmd); err != nil {
			s.releaseReservations(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, reserveCmd)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, err
	}

	s.logger.Info("placed order",
		zap.String("order_id", o.ID.String()),
		zap.String("customer_id", o.CustomerID.String()),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.TotalAmount.Amount().String()))
	s.publishEvents(ctx, o)
	return o, nil
}

func (s *OrderService) releaseReservations(ctx context.Context, reserved []appinventory.RecordMovementCommand) {
	for _, r := range reserved {
		release := r
		release.MovementType = inventory.MovementReservationRelease
		if _, err := s.recorder.RecordMovement(ctx, release); err != nil {
			s.logger.Error("failed to release reservation during rollback",
				zap.String("product_id", r.ProductID.String()),
				zap.Error(err))
		}
	}
}

// GetOrder returns an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// ListCustomerOrders returns a customer's orders
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return s.orderRepo.FindByCustomer(ctx, customerID, filter)
}

// ListOrdersByStatus returns orders in a given status
func (s *OrderService) ListOrdersByStatus(ctx context.Context, status order.Status, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return s.orderRepo.FindByStatus(ctx, status, filter)
}

// mutate loads an order, applies fn and saves with optimistic locking
func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, fn func(o *order.Order) error) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	return o, nil
}

// ProcessOrder moves a pending order into payment processing
func (s *OrderService) ProcessOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error { return o.Process() })
}

// ConfirmOrder confirms a pending or processing order
func (s *OrderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error { return o.Confirm() })
}

// reservationKey identifies outstanding reserved stock per product-location
type reservationKey struct {
	ProductID    uuid.UUID
	LocationCode string
}

// outstandingReservations computes the net reserved quantity per
// product-location from the order's movement history.
func (s *OrderService) outstandingReservations(ctx context.Context, orderID uuid.UUID) (map[reservationKey]decimal.Decimal, error) {
	rows, err := s.recorder.GetOrderTransactions(ctx, orderID)
	if err != nil {
		return nil, err
	}

	net := make(map[reservationKey]decimal.Decimal)
	for idx := range rows {
		tx := &rows[idx]
		key := reservationKey{ProductID: tx.ProductID, LocationCode: tx.FromLocation}
		switch tx.MovementType {
		case inventory.MovementReservation:
			net[key] = net[key].Add(tx.Quantity)
		case inventory.MovementReservationRelease:
			net[key] = net[key].Sub(tx.Quantity)
		case inventory.MovementFulfillment:
			net[key] = net[key].Sub(tx.Quantity.Abs())
		}
	}
	return net, nil
}

// ShipOrder fulfills the order's outstanding reservations and marks it shipped
func (s *OrderService) ShipOrder(ctx context.Context, id uuid.UUID, trackingNumber string) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusConfirmed {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Only confirmed orders can be shipped")
	}
	// Fail fast: fulfillment must not consume stock for a ship call that the
	// order itself would reject.
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}

	net, err := s.outstandingReservations(ctx, id)
	if err != nil {
		return nil, err
	}
	orderID := o.ID
	for key, qty := range net {
		if !qty.IsPositive() {
			continue
		}
		_, err := s.recorder.RecordMovement(ctx, appinventory.RecordMovementCommand{
			MovementType: inventory.MovementFulfillment,
			ProductID:    key.ProductID,
			LocationCode: key.LocationCode,
			Quantity:     qty,
			OrderID:      &orderID,
		})
		if err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, func(o *order.Order) error { return o.Ship(trackingNumber) })
}

// DeliverOrder confirms delivery of a shipped order
func (s *OrderService) DeliverOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error { return o.Deliver() })
}

// CancelOrder cancels an order and releases any stock still reserved for it
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, reason string, byCustomer bool) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Fail fast: a rejected cancel must leave the reservations untouched
	if !o.Status.CanTransitionTo(order.StatusCancelled) {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code,
			"Cannot cancel an order in status "+string(o.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	if byCustomer && !policy.IsWithinCancellationWindow(o.CreatedAt, time.Now()) {
		return nil, shared.NewDomainError("CANCELLATION_WINDOW_CLOSED", "Orders can only be cancelled within 24 hours of placement")
	}

	net, err := s.outstandingReservations(ctx, id)
	if err != nil {
		return nil, err
	}
	orderID := o.ID
	for key, qty := range net {
		if !qty.IsPositive() {
			continue
		}
		_, err := s.recorder.RecordMovement(ctx, appinventory.RecordMovementCommand{
			MovementType: inventory.MovementReservationRelease,
			ProductID:    key.ProductID,
			LocationCode: key.LocationCode,
			Quantity:     qty,
			OrderID:      &orderID,
		})
		if err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, func(o *order.Order) error {
		if byCustomer {
			return o.CancelByCustomer(reason)
		}
		return o.Cancel(reason)
	})
}

// RefundOrder refunds a delivered order and returns the goods to stock
func (s *OrderService) RefundOrder(ctx context.Context, id uuid.UUID, reason string) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refunded, err := s.mutate(ctx, id, func(o *order.Order) error { return o.Refund(reason) })
	if err != nil {
		return nil, err
	}

	// Return each fulfilled line to the location it shipped from
	rows, err := s.recorder.GetOrderTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	orderID := o.ID
	for idx := range rows {
		tx := &rows[idx]
		if tx.MovementType != inventory.MovementFulfillment {
			continue
		}
		_, err := s.recorder.RecordMovement(ctx, appinventory.RecordMovementCommand{
			MovementType: inventory.MovementSaleReturn,
			ProductID:    tx.ProductID,
			LocationCode: tx.FromLocation,
			Quantity:     tx.Quantity.Abs(),
			OrderID:      &orderID,
			Reason:       reason,
		})
		if err != nil {
			return nil, err
		}
	}
	return refunded, nil
}
