package cache

import (
	"context"
	"testing"
	"time"

	"github.com/hms/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("ASP100", "Aspirin 100mg", "tablet")
	require.NoError(t, err)
	return product
}

func TestInMemoryProductCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Set then Get returns a copy", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		product := newTestProduct(t)

		c.Set(ctx, product)

		got, ok := c.Get(ctx, product.ID)
		require.True(t, ok)
		assert.Equal(t, product.Code, got.Code)

		// mutating the returned value must not affect the cache
		got.Name = "changed"
		again, ok := c.Get(ctx, product.ID)
		require.True(t, ok)
		assert.Equal(t, "Aspirin 100mg", again.Name)
	})

	t.Run("Miss on unknown ID", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		product := newTestProduct(t)

		_, ok := c.Get(ctx, product.ID)
		assert.False(t, ok)
	})

	t.Run("Expired entries are dropped", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		product := newTestProduct(t)
		c.Set(ctx, product)

		// move the clock past the TTL
		c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, ok := c.Get(ctx, product.ID)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Invalidate removes the entry", func(t *testing.T) {
		c := NewInMemoryProductCache(time.Minute)
		product := newTestProduct(t)
		c.Set(ctx, product)

		c.Invalidate(ctx, product.ID)

		_, ok := c.Get(ctx, product.ID)
		assert.False(t, ok)
	})

	t.Run("Zero TTL falls back to default", func(t *testing.T) {
		c := NewInMemoryProductCache(0)
		assert.Equal(t, 10*time.Minute, c.ttl)
	})
}
