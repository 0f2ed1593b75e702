package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(productID uuid.UUID, quantity, unitPrice float64) *inventory.AllocationPlan {
	qty := decimal.NewFromFloat(quantity)
	price := decimal.NewFromFloat(unitPrice)
	return &inventory.AllocationPlan{
		ProductID: productID,
		Requested: qty,
		Allocations: inventory.BatchAllocations{
			{BatchID: uuid.New(), Quantity: qty, UnitPrice: price},
		},
		TotalCost:         qty.Mul(price),
		WeightedUnitPrice: price,
	}
}

func TestBilling(t *testing.T) {
	t.Run("NewBilling starts active with zero totals", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)
		assert.Equal(t, BillingStatusActive, b.Status)
		assert.True(t, b.Total.IsZero())
	})

	t.Run("NewBilling rejects missing patient", func(t *testing.T) {
		_, err := NewBilling("BIL-001", "", "nurse-7")
		assert.Error(t, err)
	})

	t.Run("AddAllocatedItem prices the line from the plan", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)

		item, err := b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 2.5), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromFloat(25)))
		assert.True(t, b.Subtotal.Equal(decimal.NewFromFloat(25)))
		assert.True(t, b.Total.Equal(decimal.NewFromFloat(25)))
		assert.True(t, b.Due.Equal(decimal.NewFromFloat(25)))
	})

	t.Run("AddAllocatedItem applies line discount and tax", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)

		// line total = 100 - 15 + 8 = 93
		item, err := b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.NewFromFloat(15), decimal.NewFromFloat(8))
		require.NoError(t, err)
		assert.True(t, item.DiscountAmount.Equal(decimal.NewFromFloat(15)))
		assert.True(t, item.TaxAmount.Equal(decimal.NewFromFloat(8)))
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromFloat(93)))
		assert.True(t, b.Subtotal.Equal(decimal.NewFromFloat(93)))
	})

	t.Run("AddAllocatedItem rejects line discount above line cost", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)

		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.NewFromFloat(150), decimal.Zero)
		assert.Error(t, err)

		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.Zero, decimal.NewFromFloat(-1))
		assert.Error(t, err)
	})

	t.Run("SetCharges computes total and due", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)
		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		// total = 100 - 20 + 5 = 85, due = 85 - 50 = 35
		require.NoError(t, b.SetCharges(decimal.NewFromFloat(20), decimal.NewFromFloat(5), decimal.NewFromFloat(50)))
		assert.True(t, b.Total.Equal(decimal.NewFromFloat(85)))
		assert.True(t, b.Due.Equal(decimal.NewFromFloat(35)))
	})

	t.Run("SetCharges rejects discount above subtotal", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)
		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		err = b.SetCharges(decimal.NewFromFloat(200), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("ClearItems resets lines and totals", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)
		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 10, 10), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, b.ClearItems())
		assert.Len(t, b.Items, 0)
		assert.True(t, b.Subtotal.IsZero())
	})

	t.Run("Second cancel conflicts", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)

		require.NoError(t, b.Cancel())
		err = b.Cancel()
		assert.Error(t, err)
	})

	t.Run("Cancelled billing rejects new items", func(t *testing.T) {
		b, err := NewBilling("BIL-001", "John Doe", "nurse-7")
		require.NoError(t, err)
		require.NoError(t, b.Cancel())

		_, err = b.AddAllocatedItem("Paracetamol 500mg", testPlan(uuid.New(), 1, 1), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}
