package handler

import (
	"time"

	appinv "github.com/commerce/backend/internal/application/inventory"
	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryHandler handles stock movement endpoints
type InventoryHandler struct {
	BaseHandler
	service *appinv.RecorderService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *appinv.RecorderService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/inventory/movements")
	{
		movements.POST("", h.Record)
		movements.GET("", h.List)
		movements.GET("/:number", h.Get)
		movements.GET("/order/:orderId", h.ListByOrder)
	}
}

type recordMovementRequest struct {
	MovementType   string          `json:"movement_type" binding:"required"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	LocationCode   string          `json:"location_code" binding:"max=32"`
	ToLocationCode string          `json:"to_location_code" binding:"max=32"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	OrderID        *uuid.UUID      `json:"order_id"`
	DocumentNumber string          `json:"document_number" binding:"max=100"`
	Reason         string          `json:"reason" binding:"max=500"`
	CreatedBy      string          `json:"created_by" binding:"max=100"`
}

// Record handles POST /inventory/movements
func (h *InventoryHandler) Record(c *gin.Context) {
	var req recordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	tx, err := h.service.RecordMovement(c.Request.Context(), appinv.RecordMovementCommand{
		MovementType:   inventory.MovementType(req.MovementType),
		ProductID:      req.ProductID,
		LocationCode:   req.LocationCode,
		ToLocationCode: req.ToLocationCode,
		Quantity:       req.Quantity,
		UnitCost:       req.UnitCost,
		OrderID:        req.OrderID,
		DocumentNumber: req.DocumentNumber,
		Reason:         req.Reason,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

type listMovementsRequest struct {
	dto.ListRequest
	ProductID string    `form:"product_id" binding:"omitempty,uuid"`
	Start     time.Time `form:"start" time_format:"2006-01-02"`
	End       time.Time `form:"end" time_format:"2006-01-02"`
}

// List handles GET /inventory/movements, filtered by product or period
func (h *InventoryHandler) List(c *gin.Context) {
	var req listMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			h.BadRequest(c, err)
			return
		}
		page, err := h.service.GetProductTransactions(c.Request.Context(), productID, req.ToFilter())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	start, end := req.Start, req.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	page, err := h.service.GetTransactionsByPeriod(c.Request.Context(), start, end, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /inventory/movements/:number
func (h *InventoryHandler) Get(c *gin.Context) {
	tx, err := h.service.GetTransaction(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// ListByOrder handles GET /inventory/movements/order/:orderId
func (h *InventoryHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	rows, err := h.service.GetOrderTransactions(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
