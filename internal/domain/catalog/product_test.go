package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("Code is normalized to upper case", func(t *testing.T) {
		product, err := NewProduct("amox-500", "Amoxicillin 500mg", "tablet")
		require.NoError(t, err)
		assert.Equal(t, "AMOX-500", product.Code)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.True(t, product.SellingPrice.IsZero())
	})

	t.Run("Creation records a created event", func(t *testing.T) {
		product, err := NewProduct("AMOX-500", "Amoxicillin 500mg", "tablet")
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "catalog.product.created", created.EventType())
		assert.Equal(t, "AMOX-500", created.Code)
	})

	t.Run("Rejects empty or oversized code", func(t *testing.T) {
		_, err := NewProduct("", "Name", "tablet")
		assert.Error(t, err)

		_, err = NewProduct(strings.Repeat("X", 51), "Name", "tablet")
		assert.Error(t, err)
	})

	t.Run("Rejects empty name and unit", func(t *testing.T) {
		_, err := NewProduct("CODE", "", "tablet")
		assert.Error(t, err)

		_, err = NewProduct("CODE", "Name", "")
		assert.Error(t, err)
	})
}

func TestProductUpdate(t *testing.T) {
	t.Run("Update bumps version", func(t *testing.T) {
		product, err := NewProduct("CODE", "Old name", "tablet")
		require.NoError(t, err)
		before := product.Version

		require.NoError(t, product.Update("New name", "a description"))
		assert.Equal(t, "New name", product.Name)
		assert.Equal(t, "a description", product.Description)
		assert.Equal(t, before+1, product.Version)
	})

	t.Run("Update rejects empty name", func(t *testing.T) {
		product, err := NewProduct("CODE", "Old name", "tablet")
		require.NoError(t, err)

		assert.Error(t, product.Update("", "description"))
		assert.Equal(t, "Old name", product.Name)
	})
}

func TestProductSetSellingPrice(t *testing.T) {
	product, err := NewProduct("CODE", "Name", "tablet")
	require.NoError(t, err)

	require.NoError(t, product.SetSellingPrice(decimal.RequireFromString("12.50")))
	assert.True(t, product.SellingPrice.Equal(decimal.RequireFromString("12.50")))

	assert.Error(t, product.SetSellingPrice(decimal.NewFromInt(-1)))
}

func TestProductDeactivate(t *testing.T) {
	product, err := NewProduct("CODE", "Name", "tablet")
	require.NoError(t, err)
	assert.True(t, product.IsActive())

	product.Deactivate()
	assert.Equal(t, ProductStatusInactive, product.Status)
	assert.False(t, product.IsActive())
}

func TestProductStatusIsValid(t *testing.T) {
	assert.True(t, ProductStatusActive.IsValid())
	assert.True(t, ProductStatusInactive.IsValid())
	assert.True(t, ProductStatusDiscontinued.IsValid())
	assert.False(t, ProductStatus("retired").IsValid())
}
