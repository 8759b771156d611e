package product

import (
	"testing"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("SKU-001", "Widget", "A test widget", valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	return p
}

func newStockedProduct(t *testing.T, location string, quantity string) *Product {
	t.Helper()
	p := newTestProduct(t)
	_, err := p.AddInventoryLocation(location, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, p.RecordPurchase(location, mustDecimal(quantity), mustDecimal("5.00"), "PO-1"))
	p.ClearDomainEvents()
	return p
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p, err := NewProduct("SKU-001", "Widget", "desc", valueobject.NewMoneyUSDFromFloat(10))
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", p.SKU)
		assert.True(t, p.IsActive)
		assert.Equal(t, 1, p.Version)
		assert.True(t, p.TotalInStock().IsZero())
	})

	t.Run("empty SKU rejected", func(t *testing.T) {
		_, err := NewProduct("", "Widget", "", valueobject.NewMoneyUSDFromFloat(10))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindValidation, domainErr.Kind)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Widget", "", valueobject.ZeroUSD())
		assert.Error(t, err)
	})
}

func TestAddInventoryLocation(t *testing.T) {
	p := newTestProduct(t)

	_, err := p.AddInventoryLocation("WH-A", decimal.Zero, mustDecimal("5"))
	require.NoError(t, err)

	t.Run("duplicate location rejected", func(t *testing.T) {
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := p.AddInventoryLocation("", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("opening quantity counts as stock on hand", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", mustDecimal("7"), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, p.TotalInStock().Equal(mustDecimal("7")))
		assert.True(t, p.TotalAvailable().Equal(mustDecimal("7")))
	})

	t.Run("negative opening quantity rejected", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", mustDecimal("-1"), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestRecordPurchase(t *testing.T) {
	t.Run("increases stock and sets average cost", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("4.00"), "PO-1"))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("10")))
		assert.True(t, p.AverageCost.Equal(mustDecimal("4.00")))
	})

	t.Run("moving weighted average cost", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("4.00"), "PO-1"))
		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("6.00"), "PO-2"))

		// (10*4 + 10*6) / 20 = 5
		assert.True(t, p.AverageCost.Equal(mustDecimal("5")), "got %s", p.AverageCost)
	})

	t.Run("unknown location rejected", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.RecordPurchase("WH-X", mustDecimal("10"), mustDecimal("4.00"), "PO-1")
		assert.Error(t, err)
	})

	t.Run("emits StockReceived event", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		p.ClearDomainEvents()

		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("4.00"), "PO-1"))
		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReceived, events[0].EventType())
	})
}

func TestReserveStock(t *testing.T) {
	t.Run("moves available stock to reserved", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		orderID := uuid.New()

		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("4"), &orderID))
		assert.True(t, p.TotalReserved().Equal(mustDecimal("4")))
		assert.True(t, p.TotalAvailable().Equal(mustDecimal("6")))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("10")), "physical stock unchanged")
	})

	t.Run("cannot reserve more than available", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("8"), nil))

		err := p.ReserveStock("WH-A", mustDecimal("3"), nil)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindConsistency, domainErr.Kind)
	})
}

func TestReleaseReservedStock(t *testing.T) {
	p := newStockedProduct(t, "WH-A", "10")
	require.NoError(t, p.ReserveStock("WH-A", mustDecimal("4"), nil))

	t.Run("returns stock to available", func(t *testing.T) {
		require.NoError(t, p.ReleaseReservedStock("WH-A", mustDecimal("3"), nil))
		assert.True(t, p.TotalReserved().Equal(mustDecimal("1")))
		assert.True(t, p.TotalAvailable().Equal(mustDecimal("9")))
	})

	t.Run("cannot release more than reserved", func(t *testing.T) {
		err := p.ReleaseReservedStock("WH-A", mustDecimal("5"), nil)
		assert.Error(t, err)
	})
}

func TestFulfillReservedStock(t *testing.T) {
	t.Run("consumes both physical and reserved stock", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("4"), nil))

		require.NoError(t, p.FulfillReservedStock("WH-A", mustDecimal("4"), nil))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("6")))
		assert.True(t, p.TotalReserved().IsZero())
	})

	t.Run("cannot fulfill beyond reservation", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("2"), nil))
		err := p.FulfillReservedStock("WH-A", mustDecimal("3"), nil)
		assert.Error(t, err)
	})

	t.Run("deactivates product when stock runs out", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "5")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("5"), nil))
		require.NoError(t, p.FulfillReservedStock("WH-A", mustDecimal("5"), nil))

		assert.False(t, p.IsActive)
		eventTypes := make([]string, 0)
		for _, e := range p.GetDomainEvents() {
			eventTypes = append(eventTypes, e.EventType())
		}
		assert.Contains(t, eventTypes, EventTypeProductOutOfStock)
	})

	t.Run("raises low stock alert below reorder level", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, mustDecimal("5"))
		require.NoError(t, err)
		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("2"), "PO-1"))
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("6"), nil))
		p.ClearDomainEvents()

		require.NoError(t, p.FulfillReservedStock("WH-A", mustDecimal("6"), nil))
		eventTypes := make([]string, 0)
		for _, e := range p.GetDomainEvents() {
			eventTypes = append(eventTypes, e.EventType())
		}
		assert.Contains(t, eventTypes, EventTypeLowStockAlert)
	})

	t.Run("alerts when available hits the reorder level exactly", func(t *testing.T) {
		p := newTestProduct(t)
		_, err := p.AddInventoryLocation("WH-A", decimal.Zero, mustDecimal("5"))
		require.NoError(t, err)
		require.NoError(t, p.RecordPurchase("WH-A", mustDecimal("10"), mustDecimal("2"), "PO-1"))
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("5"), nil))
		p.ClearDomainEvents()

		require.NoError(t, p.FulfillReservedStock("WH-A", mustDecimal("5"), nil))
		require.Len(t, p.Locations, 1)
		assert.True(t, p.Locations[0].Available().Equal(mustDecimal("5")))
		assert.True(t, p.Locations[0].IsBelowReorderLevel())

		eventTypes := make([]string, 0)
		for _, e := range p.GetDomainEvents() {
			eventTypes = append(eventTypes, e.EventType())
		}
		assert.Contains(t, eventTypes, EventTypeLowStockAlert)
	})
}

func TestRecordAdjustment(t *testing.T) {
	t.Run("positive and negative deltas", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.RecordAdjustment("WH-A", mustDecimal("2"), "cycle count"))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("12")))

		require.NoError(t, p.RecordAdjustment("WH-A", mustDecimal("-3"), "cycle count"))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("9")))
	})

	t.Run("cannot drive stock below reservations", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("8"), nil))
		err := p.RecordAdjustment("WH-A", mustDecimal("-3"), "cycle count")
		assert.Error(t, err)
	})

	t.Run("requires a reason", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		err := p.RecordAdjustment("WH-A", mustDecimal("1"), "")
		assert.Error(t, err)
	})
}

func TestRecordLoss(t *testing.T) {
	p := newStockedProduct(t, "WH-A", "10")

	require.NoError(t, p.RecordLoss("WH-A", mustDecimal("2"), "water damage"))
	assert.True(t, p.TotalInStock().Equal(mustDecimal("8")))

	t.Run("cannot write off more than on hand", func(t *testing.T) {
		err := p.RecordLoss("WH-A", mustDecimal("20"), "fire")
		assert.Error(t, err)
	})
}

func TestRecordTransfer(t *testing.T) {
	t.Run("moves stock between locations", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		_, err := p.AddInventoryLocation("WH-B", decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, p.RecordTransfer("WH-A", "WH-B", mustDecimal("4")))
		assert.True(t, p.findLocation("WH-A").QuantityInStock.Equal(mustDecimal("6")))
		assert.True(t, p.findLocation("WH-B").QuantityInStock.Equal(mustDecimal("4")))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("10")), "total stock unchanged")
	})

	t.Run("reserved stock cannot leave the source", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		_, err := p.AddInventoryLocation("WH-B", decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("8"), nil))

		err = p.RecordTransfer("WH-A", "WH-B", mustDecimal("3"))
		assert.Error(t, err)
	})

	t.Run("same location rejected", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		err := p.RecordTransfer("WH-A", "WH-A", mustDecimal("1"))
		assert.Error(t, err)
	})
}

func TestRecordReturns(t *testing.T) {
	t.Run("sale return adds stock", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.RecordSaleReturn("WH-A", mustDecimal("2")))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("12")))
	})

	t.Run("purchase return removes available stock", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.RecordPurchaseReturn("WH-A", mustDecimal("3"), mustDecimal("5.00")))
		assert.True(t, p.TotalInStock().Equal(mustDecimal("7")))
	})

	t.Run("purchase return bounded by available stock", func(t *testing.T) {
		p := newStockedProduct(t, "WH-A", "10")
		require.NoError(t, p.ReserveStock("WH-A", mustDecimal("9"), nil))
		err := p.RecordPurchaseReturn("WH-A", mustDecimal("2"), mustDecimal("5.00"))
		assert.Error(t, err)
	})
}

func TestReviews(t *testing.T) {
	p := newTestProduct(t)
	customerID := uuid.New()

	review, err := p.AddReview(customerID, 4, "works well")
	require.NoError(t, err)
	assert.Equal(t, ReviewStatusPending, review.Status)

	t.Run("invalid rating rejected", func(t *testing.T) {
		_, err := p.AddReview(customerID, 6, "")
		assert.Error(t, err)
	})

	t.Run("pending reviews do not count toward rating", func(t *testing.T) {
		assert.True(t, p.AverageRating().IsZero())
	})

	t.Run("approve and average", func(t *testing.T) {
		require.NoError(t, p.ApproveReview(review.ID))
		second, err := p.AddReview(uuid.New(), 5, "")
		require.NoError(t, err)
		require.NoError(t, p.ApproveReview(second.ID))

		assert.True(t, p.AverageRating().Equal(mustDecimal("4.5")))
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		assert.Error(t, p.ApproveReview(review.ID))
	})

	t.Run("unknown review", func(t *testing.T) {
		assert.Error(t, p.RejectReview(uuid.New()))
	})
}

func TestVersionIncrements(t *testing.T) {
	p := newStockedProduct(t, "WH-A", "10")
	before := p.Version

	require.NoError(t, p.ReserveStock("WH-A", mustDecimal("1"), nil))
	assert.Equal(t, before+1, p.Version)
}
