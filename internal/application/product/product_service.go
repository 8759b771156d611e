// Package product contains the application service for catalog management:
// product CRUD, locations, review moderation and the reorder report. Stock
// movements are not recorded here; they go through the movement recorder.
package product

import (
	"context"

	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles catalog-level product operations
type ProductService struct {
	productRepo product.ProductRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo product.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used to emit domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func (s *ProductService) publishEvents(ctx context.Context, p *product.Product) {
	if s.publisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	p.ClearDomainEvents()
}

// CreateProductCommand carries the inputs for creating a product
type CreateProductCommand struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
}

// CreateProduct creates a new product with a unique SKU
func (s *ProductService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*product.Product, error) {
	taken, err := s.productRepo.ExistsBySKU(ctx, cmd.SKU)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists
	}

	p, err := product.NewProduct(cmd.SKU, cmd.Name, cmd.Description, valueobject.NewMoneyUSD(cmd.Price))
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("created product", zap.String("sku", p.SKU), zap.String("id", p.ID.String()))
	s.publishEvents(ctx, p)
	return p, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// GetProductBySKU returns a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return s.productRepo.FindBySKU(ctx, sku)
}

// ListProducts returns products matching the filter; activeOnly restricts the
// result to sellable products
func (s *ProductService) ListProducts(ctx context.Context, filter shared.Filter, activeOnly bool) (shared.Paginated[product.Product], error) {
	if activeOnly {
		return s.productRepo.FindActive(ctx, filter)
	}
	return s.productRepo.FindAll(ctx, filter)
}

// mutate loads a product, applies fn and saves with optimistic locking
func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, fn func(p *product.Product) error) (*product.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	return p, nil
}

// UpdateProduct changes name and description
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, name, description string) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		return p.UpdateDetails(name, description)
	})
}

// ChangePrice sets a new selling price
func (s *ProductService) ChangePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		return p.ChangePrice(valueobject.NewMoneyUSD(price))
	})
}

// ActivateProduct makes a product sellable
func (s *ProductService) ActivateProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		p.Activate()
		return nil
	})
}

// DeactivateProduct removes a product from sale
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		p.Deactivate()
		return nil
	})
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// AddLocation registers a stock location for a product
func (s *ProductService) AddLocation(ctx context.Context, id uuid.UUID, code string, initialQty, reorderLevel decimal.Decimal) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		_, err := p.AddInventoryLocation(code, initialQty, reorderLevel)
		return err
	})
}

// AddReview attaches a pending customer review to a product
func (s *ProductService) AddReview(ctx context.Context, id, customerID uuid.UUID, rating int, comment string) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		_, err := p.AddReview(customerID, rating, comment)
		return err
	})
}

// ModerateReview approves or rejects a pending review
func (s *ProductService) ModerateReview(ctx context.Context, id, reviewID uuid.UUID, approve bool) (*product.Product, error) {
	return s.mutate(ctx, id, func(p *product.Product) error {
		if approve {
			return p.ApproveReview(reviewID)
		}
		return p.RejectReview(reviewID)
	})
}

// ReorderLine is one row of the reorder report
type ReorderLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	LocationCode string          `json:"location_code"`
	Available    decimal.Decimal `json:"available"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// ReorderReport lists every location whose available stock sits below its
// reorder level
func (s *ProductService) ReorderReport(ctx context.Context) ([]ReorderLine, error) {
	products, err := s.productRepo.FindBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]ReorderLine, 0)
	for pIdx := range products {
		p := &products[pIdx]
		for lIdx := range p.Locations {
			loc := &p.Locations[lIdx]
			if !loc.IsBelowReorderLevel() {
				continue
			}
			lines = append(lines, ReorderLine{
				ProductID:    p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				LocationCode: loc.LocationCode,
				Available:    loc.Available(),
				ReorderLevel: loc.ReorderLevel,
			})
		}
	}
	return lines, nil
}
