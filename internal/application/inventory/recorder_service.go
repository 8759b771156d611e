// Package inventory contains the application service that records stock
// movements. A movement is applied to the product aggregate, appended to the
// immutable movement journal and, when it has a financial effect, posted to
// the general ledger, all inside one database transaction.
package inventory

import (
	"context"
	"time"

	appledger "github.com/commerce/backend/internal/application/ledger"
	"github.com/commerce/backend/internal/domain/inventory"
	"github.com/commerce/backend/internal/domain/product"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordMovementCommand carries the inputs for recording one stock movement.
// LocationCode is the location the movement acts on; for transfers it is the
// source and ToLocationCode the destination.
type RecordMovementCommand struct {
	MovementType   inventory.MovementType
	ProductID      uuid.UUID
	LocationCode   string
	ToLocationCode string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	OrderID        *uuid.UUID
	DocumentNumber string
	Reason         string
	CreatedBy      string
}

// RecorderService records stock movements atomically: product state, the
// movement journal row and the ledger posting commit or roll back together.
type RecorderService struct {
	scope     TransactionScope
	poster    *appledger.PostingService
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewRecorderService creates a new RecorderService
func NewRecorderService(scope TransactionScope, poster *appledger.PostingService, logger *zap.Logger) *RecorderService {
	return &RecorderService{
		scope:  scope,
		poster: poster,
		logger: logger,
	}
}

// SetEventPublisher sets the publisher used to emit domain events after commit
func (s *RecorderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// RecordMovement applies a movement to the product, appends the journal row,
// posts it to the ledger when applicable and returns the recorded transaction.
func (s *RecorderService) RecordMovement(ctx context.Context, cmd RecordMovementCommand) (*inventory.InventoryTransaction, error) {
	if !cmd.MovementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}

	var (
		recorded *inventory.InventoryTransaction
		events   []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.ProductRepo().FindByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}

		unitCost := cmd.UnitCost
		if unitCost.IsZero() && cmd.MovementType != inventory.MovementPurchase {
			unitCost = p.AverageCost
		}

		if err := applyMovement(p, cmd); err != nil {
			return err
		}

		seq, err := repos.Sequences().Next(ctx, shared.SequenceInventoryTransaction)
		if err != nil {
			return err
		}

		from, to := movementLocations(cmd)
		record, err := inventory.NewInventoryTransaction(inventory.FormatTransactionNumber(seq), inventory.NewTransactionParams{
			MovementType:   cmd.MovementType,
			ProductID:      p.ID,
			SKU:            p.SKU,
			ProductName:    p.Name,
			FromLocation:   from,
			ToLocation:     to,
			Quantity:       cmd.Quantity,
			UnitCost:       unitCost,
			OrderID:        cmd.OrderID,
			DocumentNumber: cmd.DocumentNumber,
			Reason:         cmd.Reason,
			CreatedBy:      cmd.CreatedBy,
		})
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, record); err != nil {
			return err
		}

		entry, err := s.poster.PostMovementTx(ctx, repos.AccountRepo(), repos.JournalRepo(), repos.Sequences(), record)
		if err != nil {
			return err
		}
		if entry != nil {
			if err := record.LinkJournalEntry(entry.ID); err != nil {
				return err
			}
			if err := repos.TransactionRepo().LinkJournalEntry(ctx, record.ID, entry.ID); err != nil {
				return err
			}
		}

		if err := repos.ProductRepo().SaveWithLock(ctx, p); err != nil {
			return err
		}

		recorded = record
		events = p.GetDomainEvents()
		p.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	s.logger.Info("recorded stock movement",
		zap.String("transaction", recorded.TransactionNumber),
		zap.String("type", string(recorded.MovementType)),
		zap.String("sku", recorded.SKU),
		zap.String("quantity", recorded.Quantity.String()))

	return recorded, nil
}

// applyMovement dispatches the command to the matching product operation. A
// direct sale with no prior reservation is modeled as reserve-then-fulfill so
// it obeys the same availability bound.
func applyMovement(p *product.Product, cmd RecordMovementCommand) error {
	switch cmd.MovementType {
	case inventory.MovementPurchase:
		return p.RecordPurchase(cmd.LocationCode, cmd.Quantity, cmd.UnitCost, cmd.DocumentNumber)
	case inventory.MovementSale:
		if err := p.ReserveStock(cmd.LocationCode, cmd.Quantity, cmd.OrderID); err != nil {
			return err
		}
		return p.FulfillReservedStock(cmd.LocationCode, cmd.Quantity, cmd.OrderID)
	case inventory.MovementSaleReturn:
		return p.RecordSaleReturn(cmd.LocationCode, cmd.Quantity)
	case inventory.MovementPurchaseReturn:
		return p.RecordPurchaseReturn(cmd.LocationCode, cmd.Quantity, cmd.UnitCost)
	case inventory.MovementAdjustment:
		return p.RecordAdjustment(cmd.LocationCode, cmd.Quantity, cmd.Reason)
	case inventory.MovementTransfer:
		return p.RecordTransfer(cmd.LocationCode, cmd.ToLocationCode, cmd.Quantity)
	case inventory.MovementLoss:
		return p.RecordLoss(cmd.LocationCode, cmd.Quantity, cmd.Reason)
	case inventory.MovementReservation:
		return p.ReserveStock(cmd.LocationCode, cmd.Quantity, cmd.OrderID)
	case inventory.MovementReservationRelease:
		return p.ReleaseReservedStock(cmd.LocationCode, cmd.Quantity, cmd.OrderID)
	case inventory.MovementFulfillment:
		return p.FulfillReservedStock(cmd.LocationCode, cmd.Quantity, cmd.OrderID)
	default:
		return shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
}

// movementLocations maps the command's location onto the journal row's
// from/to columns according to the movement direction.
func movementLocations(cmd RecordMovementCommand) (from, to string) {
	switch cmd.MovementType {
	case inventory.MovementTransfer:
		return cmd.LocationCode, cmd.ToLocationCode
	case inventory.MovementPurchase, inventory.MovementSaleReturn:
		return "", cmd.LocationCode
	case inventory.MovementAdjustment:
		if cmd.Quantity.IsPositive() {
			return "", cmd.LocationCode
		}
		return cmd.LocationCode, ""
	default:
		return cmd.LocationCode, ""
	}
}

func (s *RecorderService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// GetTransaction returns a movement by its transaction number
func (s *RecorderService) GetTransaction(ctx context.Context, number string) (*inventory.InventoryTransaction, error) {
	var record *inventory.InventoryTransaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.TransactionRepo().FindByNumber(ctx, number)
		if err != nil {
			return err
		}
		record = found
		return nil
	})
	return record, err
}

// GetProductTransactions returns a product's movement history, newest first
func (s *RecorderService) GetProductTransactions(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	var page shared.Paginated[inventory.InventoryTransaction]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.TransactionRepo().FindByProduct(ctx, productID, filter)
		if err != nil {
			return err
		}
		page = found
		return nil
	})
	return page, err
}

// GetTransactionsByPeriod returns movements recorded within a time range
func (s *RecorderService) GetTransactionsByPeriod(ctx context.Context, start, end time.Time, filter shared.Filter) (shared.Paginated[inventory.InventoryTransaction], error) {
	var page shared.Paginated[inventory.InventoryTransaction]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.TransactionRepo().FindByPeriod(ctx, start, end, filter)
		if err != nil {
			return err
		}
		page = found
		return nil
	})
	return page, err
}

// GetOrderTransactions returns all movements tied to an order
func (s *RecorderService) GetOrderTransactions(ctx context.Context, orderID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var records []inventory.InventoryTransaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.TransactionRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		records = found
		return nil
	})
	return records, err
}
