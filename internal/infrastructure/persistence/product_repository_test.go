package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, repo *GormProductRepository, code, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, "tablet")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepositorySaveAndFindByID(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "amox-500", "Amoxicillin 500mg")

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "AMOX-500", found.Code)
	assert.Equal(t, "Amoxicillin 500mg", found.Name)
	assert.Equal(t, catalog.ProductStatusActive, found.Status)
	assert.True(t, found.SellingPrice.Equal(decimal.Zero))
}

func TestGormProductRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepositoryFindByCode(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "IBU-200", "Ibuprofen 200mg")

	// Lookup is case-insensitive and trims whitespace.
	found, err := repo.FindByCode(ctx, "  ibu-200  ")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	_, err = repo.FindByCode(ctx, "MISSING")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepositoryFindByIDs(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	first := seedProduct(t, repo, "P-1", "First")
	second := seedProduct(t, repo, "P-2", "Second")
	seedProduct(t, repo, "P-3", "Third")

	products, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGormProductRepositoryUpdate(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "PARA-650", "Paracetamol")
	require.NoError(t, product.Update("Paracetamol 650mg", "analgesic"))
	require.NoError(t, product.SetSellingPrice(decimal.RequireFromString("2.50")))
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 650mg", found.Name)
	assert.Equal(t, "analgesic", found.Description)
	assert.True(t, found.SellingPrice.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, product.Version, found.Version)
}

func TestGormProductRepositoryDelete(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, "DEL-1", "Deletable")

	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
}

func TestGormProductRepositoryFilterAndCount(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, "ACT-1", "Active one")
	seedProduct(t, repo, "ACT-2", "Active two")
	inactive := seedProduct(t, repo, "INACT-1", "Inactive one")
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	filter := shared.Filter{
		Page:     1,
		PageSize: 10,
		OrderBy:  "code",
		OrderDir: "asc",
		Filters:  map[string]interface{}{"status": "active"},
	}

	products, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "ACT-1", products[0].Code)
	assert.Equal(t, "ACT-2", products[1].Code)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormProductRepositoryPagination(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	for _, code := range []string{"PG-1", "PG-2", "PG-3", "PG-4", "PG-5"} {
		seedProduct(t, repo, code, "Paged "+code)
	}

	page2, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderBy: "code", OrderDir: "asc"})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "PG-3", page2[0].Code)
	assert.Equal(t, "PG-4", page2[1].Code)
}
