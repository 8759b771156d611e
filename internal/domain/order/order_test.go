package order

import (
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New())
	require.NoError(t, err)
	return o
}

func newConfirmableOrder(t *testing.T) *Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.AddItem(uuid.New(), "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(25), 2))

	addr, err := valueobject.NewAddress("1 Main St", "Springfield", "62701", "US")
	require.NoError(t, err)
	require.NoError(t, o.SetShipping(addr, valueobject.NewMoneyUSDFromFloat(5)))
	require.NoError(t, o.SetPaymentMethod("card"))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending with placed event", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, StatusPending, o.Status)
		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("nil customer rejected", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil)
		assert.Error(t, err)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("adds line and recalculates totals", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AddItem(uuid.New(), "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 3))

		assert.Len(t, o.Items, 1)
		assert.True(t, o.SubTotal.Amount().Equal(decimal.NewFromInt(30)))
		assert.True(t, o.TotalAmount.Amount().Equal(decimal.NewFromInt(30)))
	})

	t.Run("same product merges into one line", func(t *testing.T) {
		o := newTestOrder(t)
		productID := uuid.New()
		require.NoError(t, o.AddItem(productID, "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 1))
		require.NoError(t, o.AddItem(productID, "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 2))

		assert.Len(t, o.Items, 1)
		assert.Equal(t, 3, o.Items[0].Quantity)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.AddItem(uuid.New(), "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 0)
		assert.Error(t, err)
	})

	t.Run("rejected after confirmation", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		err := o.AddItem(uuid.New(), "SKU-002", "Gadget", valueobject.NewMoneyUSDFromFloat(10), 1)
		assert.Error(t, err)
	})
}

func TestRemoveAndUpdateItems(t *testing.T) {
	o := newTestOrder(t)
	productID := uuid.New()
	require.NoError(t, o.AddItem(productID, "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 2))

	t.Run("update quantity", func(t *testing.T) {
		require.NoError(t, o.UpdateItemQuantity(productID, 5))
		assert.True(t, o.SubTotal.Amount().Equal(decimal.NewFromInt(50)))
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.Error(t, o.UpdateItemQuantity(uuid.New(), 1))
		assert.Error(t, o.RemoveItem(uuid.New()))
	})

	t.Run("remove item zeroes totals", func(t *testing.T) {
		require.NoError(t, o.RemoveItem(productID))
		assert.Empty(t, o.Items)
		assert.True(t, o.SubTotal.IsZero())
	})
}

func TestDiscountsAndTotals(t *testing.T) {
	o := newTestOrder(t)
	productID := uuid.New()
	require.NoError(t, o.AddItem(productID, "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(20), 2))

	t.Run("line discount", func(t *testing.T) {
		require.NoError(t, o.ApplyItemDiscount(productID, decimal.NewFromInt(5)))
		assert.True(t, o.SubTotal.Amount().Equal(decimal.NewFromInt(35)))
	})

	t.Run("line discount bounded by line total", func(t *testing.T) {
		err := o.ApplyItemDiscount(productID, decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("full total formula", func(t *testing.T) {
		addr, err := valueobject.NewAddress("1 Main St", "Springfield", "62701", "US")
		require.NoError(t, err)
		require.NoError(t, o.SetShipping(addr, valueobject.NewMoneyUSDFromFloat(10)))
		require.NoError(t, o.SetTaxAmount(valueobject.NewMoneyUSDFromFloat(3)))
		require.NoError(t, o.ApplyCoupon("SAVE5", valueobject.NewMoneyUSDFromFloat(5)))

		// 35 + 3 + 10 - 5
		assert.True(t, o.TotalAmount.Amount().Equal(decimal.NewFromInt(43)), "got %s", o.TotalAmount.Amount())
	})

	t.Run("total never negative", func(t *testing.T) {
		require.NoError(t, o.ApplyCoupon("SAVEALL", valueobject.NewMoneyUSDFromFloat(1000)))
		assert.True(t, o.TotalAmount.IsZero())
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("pending to processing to confirmed", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Process())
		assert.Equal(t, StatusProcessing, o.Status)
		require.NoError(t, o.Confirm())
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.NotNil(t, o.ConfirmedAt)
	})

	t.Run("pending straight to confirmed", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		assert.Equal(t, StatusConfirmed, o.Status)
	})

	t.Run("confirm requires a complete order", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.Confirm())
	})

	t.Run("cannot ship a pending order", func(t *testing.T) {
		o := newConfirmableOrder(t)
		assert.Error(t, o.Ship("TRK-1"))
	})

	t.Run("ship deliver refund", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship("TRK-1"))
		assert.Equal(t, "TRK-1", o.TrackingNumber)
		assert.NotNil(t, o.ShippedAt)

		require.NoError(t, o.Deliver())
		assert.NotNil(t, o.DeliveredAt)

		require.NoError(t, o.Refund("defective"))
		assert.Equal(t, StatusRefunded, o.Status)
	})

	t.Run("status change events emitted", func(t *testing.T) {
		o := newConfirmableOrder(t)
		o.ClearDomainEvents()
		require.NoError(t, o.Confirm())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusPending, changed.FromStatus)
		assert.Equal(t, StatusConfirmed, changed.ToStatus)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancel pending order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel("changed my mind"))
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, "changed my mind", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("cancel confirmed order", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Cancel("out of stock"))
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("cannot cancel shipped order", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship("TRK-1"))
		assert.Error(t, o.Cancel("too late"))
	})

	t.Run("requires a reason", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.Cancel(""))
	})

	t.Run("customer cancellation outside window rejected", func(t *testing.T) {
		o := newTestOrder(t)
		o.CreatedAt = time.Now().Add(-25 * time.Hour)
		assert.Error(t, o.CancelByCustomer("changed my mind"))
	})

	t.Run("customer cancellation within window", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.CancelByCustomer("changed my mind"))
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel("done"))
		assert.Error(t, o.Cancel("again"))
		assert.True(t, o.Status.IsTerminal())
	})
}

func TestRefund(t *testing.T) {
	delivered := func(t *testing.T) *Order {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Ship("TRK-1"))
		require.NoError(t, o.Deliver())
		return o
	}

	t.Run("refund emits event with amount", func(t *testing.T) {
		o := delivered(t)
		o.ClearDomainEvents()
		require.NoError(t, o.Refund("defective"))

		var refunded *OrderRefundedEvent
		for _, e := range o.GetDomainEvents() {
			if r, ok := e.(*OrderRefundedEvent); ok {
				refunded = r
			}
		}
		require.NotNil(t, refunded)
		assert.True(t, refunded.RefundAmount.Equal(o.TotalAmount.Amount()))
	})

	t.Run("refund window enforced", func(t *testing.T) {
		o := delivered(t)
		past := time.Now().Add(-31 * 24 * time.Hour)
		o.DeliveredAt = &past
		assert.Error(t, o.Refund("too old"))
	})

	t.Run("undelivered order cannot be refunded", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.Confirm())
		assert.Error(t, o.Refund("nope"))
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing payment method", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AddItem(uuid.New(), "SKU-001", "Widget", valueobject.NewMoneyUSDFromFloat(10), 1))
		addr, err := valueobject.NewAddress("1 Main St", "Springfield", "62701", "US")
		require.NoError(t, err)
		require.NoError(t, o.SetShipping(addr, valueobject.ZeroUSD()))
		assert.Error(t, o.Validate())
	})

	t.Run("amount bounds enforced", func(t *testing.T) {
		o := newConfirmableOrder(t)
		require.NoError(t, o.UpdateItemQuantity(o.Items[0].ProductID, 100))
		require.NoError(t, o.ApplyItemDiscount(o.Items[0].ProductID, o.Items[0].UnitPrice.Amount().Mul(decimal.NewFromInt(100))))
		require.NoError(t, o.ApplyCoupon("ZERO", o.ShippingCost))
		// total is now zero, below the minimum order amount
		assert.Error(t, o.Validate())
	})
}
