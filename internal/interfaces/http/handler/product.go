package handler

import (
	"github.com/commerce/backend/internal/application/product"
	"github.com/commerce/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles product catalog and review endpoints
type ProductHandler struct {
	BaseHandler
	service *product.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/reorder-report", h.ReorderReport)
		products.GET("/sku/:sku", h.GetBySKU)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.PUT("/:id/price", h.ChangePrice)
		products.POST("/:id/activate", h.Activate)
		products.POST("/:id/deactivate", h.Deactivate)
		products.POST("/:id/locations", h.AddLocation)
		products.POST("/:id/reviews", h.AddReview)
		products.PUT("/:id/reviews/:reviewId", h.ModerateReview)
	}
}

type createProductRequest struct {
	SKU         string          `json:"sku" binding:"required,max=64"`
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), product.CreateProductCommand{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

type listProductsRequest struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req listProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	page, err := h.service.ListProducts(c.Request.Context(), req.ToFilter(), req.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// GetBySKU handles GET /products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.service.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

type updateProductRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.UpdateProduct(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

type changePriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ChangePrice handles PUT /products/:id/price
func (h *ProductHandler) ChangePrice(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req changePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.ChangePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Activate handles POST /products/:id/activate
func (h *ProductHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.ActivateProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Deactivate handles POST /products/:id/deactivate
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	p, err := h.service.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type addLocationRequest struct {
	LocationCode    string          `json:"location_code" binding:"required,max=32"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
}

// AddLocation handles POST /products/:id/locations
func (h *ProductHandler) AddLocation(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.AddLocation(c.Request.Context(), id, req.LocationCode, req.InitialQuantity, req.ReorderLevel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

type addReviewRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Comment    string    `json:"comment" binding:"max=2000"`
}

// AddReview handles POST /products/:id/reviews
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.AddReview(c.Request.Context(), id, req.CustomerID, req.Rating, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

type moderateReviewRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ModerateReview handles PUT /products/:id/reviews/:reviewId
func (h *ProductHandler) ModerateReview(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	var req moderateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	p, err := h.service.ModerateReview(c.Request.Context(), id, reviewID, *req.Approve)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ReorderReport handles GET /products/reorder-report
func (h *ProductHandler) ReorderReport(c *gin.Context) {
	lines, err := h.service.ReorderReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}
