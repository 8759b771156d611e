package persistence

import (
	"context"
	"testing"

	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}))
	return db
}

func newPersistedOrder(t *testing.T, repo *GormOrderRepository, customerID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(customerID)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(uuid.New(), "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(25), 2))
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find by id with items", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))
		o := newPersistedOrder(t, repo, uuid.New())

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, found.Status)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 2, found.Items[0].Quantity)
	})

	t.Run("find by customer and status", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))
		customerID := uuid.New()
		o := newPersistedOrder(t, repo, customerID)
		newPersistedOrder(t, repo, uuid.New())

		page, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, o.ID, page.Items[0].ID)

		pending, err := repo.FindByStatus(ctx, order.StatusPending, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), pending.Total)

		count, err := repo.CountByStatus(ctx, order.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("save with lock persists item removal", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))
		o := newPersistedOrder(t, repo, uuid.New())

		gadgetID := uuid.New()
		require.NoError(t, o.AddItem(gadgetID, "SKU-002", "Gadget", valueobject.NewMoneyUSDFromFloat(10), 1))
		require.NoError(t, repo.SaveWithLock(ctx, o))

		require.NoError(t, o.RemoveItem(gadgetID))
		require.NoError(t, repo.SaveWithLock(ctx, o))

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "SKU-001", found.Items[0].SKU)
	})

	t.Run("save with lock rejects stale version", func(t *testing.T) {
		repo := NewGormOrderRepository(setupOrderTestDB(t))
		o := newPersistedOrder(t, repo, uuid.New())

		stale, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)

		require.NoError(t, o.SetPaymentMethod("card"))
		require.NoError(t, repo.SaveWithLock(ctx, o))

		require.NoError(t, stale.SetPaymentMethod("cash"))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})
}
