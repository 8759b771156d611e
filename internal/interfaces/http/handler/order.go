package handler

import (
	"context"

	appord "github.com/commerce/backend/internal/application/order"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/commerce/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderHandler handles order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	service *appord.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *appord.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Place)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/process", h.Process)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/deliver", h.Deliver)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/refund", h.Refund)
	}
}

type addressRequest struct {
	Line1      string `json:"line1" binding:"required,max=255"`
	Line2      string `json:"line2" binding:"max=255"`
	City       string `json:"city" binding:"required,max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=2"`
}

func (r addressRequest) toAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Line1, r.City, r.PostalCode, r.Country,
		valueobject.WithLine2(r.Line2),
		valueobject.WithRegion(r.Region),
	)
}

type orderItemRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	LocationCode string    `json:"location_code" binding:"required,max=32"`
}

type placeOrderRequest struct {
	CustomerID      uuid.UUID          `json:"customer_id" binding:"required"`
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress addressRequest     `json:"shipping_address" binding:"required"`
	BillingAddress  *addressRequest    `json:"billing_address"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	PaymentMethod   string             `json:"payment_method" binding:"max=50"`
	CouponCode      string             `json:"coupon_code" binding:"max=50"`
	CouponDiscount  decimal.Decimal    `json:"coupon_discount"`
}

// Place handles POST /orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	shipping, err := req.ShippingAddress.toAddress()
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	billing := shipping
	if req.BillingAddress != nil {
		billing, err = req.BillingAddress.toAddress()
		if err != nil {
			h.BadRequest(c, err)
			return
		}
	}

	items := make([]appord.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appord.OrderItemInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			LocationCode: item.LocationCode,
		})
	}

	o, err := h.service.PlaceOrder(c.Request.Context(), appord.PlaceOrderCommand{
		CustomerID:      req.CustomerID,
		Items:           items,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		ShippingCost:    req.ShippingCost,
		TaxAmount:       req.TaxAmount,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		CouponDiscount:  req.CouponDiscount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

type listOrdersRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
}

// List handles GET /orders, filtered by customer or status
func (h *OrderHandler) List(c *gin.Context) {
	var req listOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, err)
			return
		}
		page, err := h.service.ListCustomerOrders(c.Request.Context(), customerID, req.ToFilter())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	status := order.StatusPending
	if req.Status != "" {
		status = order.Status(req.Status)
	}
	page, err := h.service.ListOrdersByStatus(c.Request.Context(), status, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	o, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Process handles POST /orders/:id/process
func (h *OrderHandler) Process(c *gin.Context) {
	h.transition(c, h.service.ProcessOrder)
}

// Confirm handles POST /orders/:id/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.ConfirmOrder)
}

type shipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
}

// Ship handles POST /orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req shipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	o, err := h.service.ShipOrder(c.Request.Context(), id, req.TrackingNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Deliver handles POST /orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.service.DeliverOrder)
}

type cancelOrderRequest struct {
	Reason     string `json:"reason" binding:"required,max=500"`
	ByCustomer bool   `json:"by_customer"`
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	o, err := h.service.CancelOrder(c.Request.Context(), id, req.Reason, req.ByCustomer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

type refundOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Refund handles POST /orders/:id/refund
func (h *OrderHandler) Refund(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req refundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	o, err := h.service.RefundOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*order.Order, error)) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	o, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
