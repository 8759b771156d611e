package product

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// lowStockDedupTTL is how long a handled alert event stays marked so bus
// redeliveries do not alert twice
const lowStockDedupTTL = 24 * time.Hour

// LowStockAlertHandler reacts to low-stock and out-of-stock events. Delivery
// from the bus is at-least-once, so the handler deduplicates by event ID
// through the idempotency store before acting.
type LowStockAlertHandler struct {
	store  shared.IdempotencyStore
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(store shared.IdempotencyStore, logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		store:  store,
		logger: logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{
		product.EventTypeLowStockAlert,
		product.EventTypeProductOutOfStock,
	}
}

// Handle processes one alert event, at most once per event ID
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fresh, err := h.store.MarkProcessed(ctx, event.EventID().String(), lowStockDedupTTL)
	if err != nil {
		return err
	}
	if !fresh {
		h.logger.Debug("skipping duplicate event", zap.String("event_id", event.EventID().String()))
		return nil
	}

	switch e := event.(type) {
	case *product.LowStockAlertEvent:
		h.logger.Warn("low stock",
			zap.String("sku", e.SKU),
			zap.String("product", e.ProductName),
			zap.String("location", e.LocationCode),
			zap.String("available", e.Available.String()),
			zap.String("reorder_level", e.ReorderLevel.String()))
	case *product.ProductOutOfStockEvent:
		h.logger.Warn("product out of stock",
			zap.String("sku", e.SKU),
			zap.String("product", e.ProductName))
	default:
		h.logger.Debug("ignoring unexpected event type", zap.String("type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
