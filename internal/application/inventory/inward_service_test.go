package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeProductRepo) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	f.products[p.ID] = p
	return nil
}
func (f *fakeProductRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (f *fakeProductRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeProductRepo) FindByCode(context.Context, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*procurement.Order
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*procurement.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeOrderRepo) FindAll(context.Context, shared.Filter) ([]procurement.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) Save(_ context.Context, o *procurement.Order) error {
	f.orders[o.ID] = o
	return nil
}
func (f *fakeOrderRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (f *fakeOrderRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeOrderRepo) FindByNumber(context.Context, string) (*procurement.Order, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeOrderRepo) SaveWithLock(ctx context.Context, o *procurement.Order) error {
	return f.Save(ctx, o)
}

type fakeInwardRepo struct {
	inwards map[uuid.UUID]*inventory.Inward
}

func (f *fakeInwardRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Inward, error) {
	if in, ok := f.inwards[id]; ok {
		return in, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeInwardRepo) FindAll(context.Context, shared.Filter) ([]inventory.Inward, error) {
	return nil, nil
}
func (f *fakeInwardRepo) Save(_ context.Context, in *inventory.Inward) error {
	f.inwards[in.ID] = in
	return nil
}
func (f *fakeInwardRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (f *fakeInwardRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeInwardRepo) FindByNumber(context.Context, string) (*inventory.Inward, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeInwardRepo) AddConsumption(_ context.Context, inwardID uuid.UUID, bucket inventory.ConsumptionBucket, delta decimal.Decimal) error {
	in, ok := f.inwards[inwardID]
	if !ok {
		return shared.ErrNotFound
	}
	in.RecordConsumption(bucket, delta)
	return nil
}

type fakeStockRepo struct {
	stocks map[uuid.UUID]*inventory.Stock
}

func (f *fakeStockRepo) FindByID(context.Context, uuid.UUID) (*inventory.Stock, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) (*inventory.Stock, error) {
	if s, ok := f.stocks[productID]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeStockRepo) FindAll(context.Context, shared.Filter) ([]inventory.Stock, error) {
	return nil, nil
}
func (f *fakeStockRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeStockRepo) Save(_ context.Context, s *inventory.Stock) error {
	f.stocks[s.ProductID] = s
	return nil
}
func (f *fakeStockRepo) SaveWithLock(_ context.Context, s *inventory.Stock) error {
	f.stocks[s.ProductID] = s
	return nil
}

type inwardFixture struct {
	service  *InwardService
	products *fakeProductRepo
	orders   *fakeOrderRepo
	inwards  *fakeInwardRepo
	stocks   *fakeStockRepo
	product  *catalog.Product
}

func newInwardFixture(t *testing.T) *inwardFixture {
	t.Helper()

	f := &inwardFixture{
		products: &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)},
		orders:   &fakeOrderRepo{orders: make(map[uuid.UUID]*procurement.Order)},
		inwards:  &fakeInwardRepo{inwards: make(map[uuid.UUID]*inventory.Inward)},
		stocks:   &fakeStockRepo{stocks: make(map[uuid.UUID]*inventory.Stock)},
	}

	product, err := catalog.NewProduct("CETR10", "Cetirizine 10mg", "tablet")
	require.NoError(t, err)
	f.products.products[product.ID] = product
	f.product = product

	scope := NewNoOpTransactionScope(f.products, f.orders, f.inwards, nil, f.stocks, nil, nil)
	f.service = NewInwardService(scope, f.inwards)
	return f
}

func (f *inwardFixture) seedOrder(t *testing.T, quantity float64) *procurement.Order {
	t.Helper()
	order, err := procurement.NewOrder("PO-1", "Acme Pharma")
	require.NoError(t, err)
	_, err = order.AddItem(f.product.ID, f.product.Name, decimal.NewFromFloat(quantity), decimal.NewFromFloat(5))
	require.NoError(t, err)
	f.orders.orders[order.ID] = order
	return order
}

func TestInwardServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Receipt creates batches and seeds stock", func(t *testing.T) {
		f := newInwardFixture(t)

		resp, err := f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			ReceivedBy: "store-clerk",
			Items: []CreateInwardItemRequest{
				{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(100), UnitPrice: decimal.NewFromFloat(5)},
				{ProductID: f.product.ID, BatchNumber: "B2", Quantity: decimal.NewFromFloat(50), UnitPrice: decimal.NewFromFloat(6)},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Batches, 2)
		assert.True(t, resp.TotalQuantity.Equal(decimal.NewFromFloat(150)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(800)))

		stock := f.stocks.stocks[f.product.ID]
		require.NotNil(t, stock)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(150)))
		assert.True(t, stock.InwardQuantity.Equal(decimal.NewFromFloat(150)))
	})

	t.Run("Missing batch number falls back to the inward number", func(t *testing.T) {
		f := newInwardFixture(t)

		resp, err := f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromFloat(10), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		require.NotEmpty(t, resp.InwardNumber)
		require.Len(t, resp.Batches, 1)
		assert.Equal(t, resp.InwardNumber, resp.Batches[0].BatchNumber)
	})

	t.Run("Second receipt tops up the existing stock row", func(t *testing.T) {
		f := newInwardFixture(t)

		_, err := f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(100), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		_, err = f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B2", Quantity: decimal.NewFromFloat(25), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		stock := f.stocks.stocks[f.product.ID]
		assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(125)))
	})

	t.Run("Receipt against an order reduces its pending quantity", func(t *testing.T) {
		f := newInwardFixture(t)
		order := f.seedOrder(t, 100)

		_, err := f.service.Create(ctx, CreateInwardRequest{
			OrderID:    &order.ID,
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(40), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		assert.Equal(t, procurement.OrderStatusPending, order.Status)
		assert.True(t, order.Items[0].PendingQuantity.Equal(decimal.NewFromFloat(60)))
	})

	t.Run("Full receipt completes the order", func(t *testing.T) {
		f := newInwardFixture(t)
		order := f.seedOrder(t, 100)

		_, err := f.service.Create(ctx, CreateInwardRequest{
			OrderID:    &order.ID,
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(100), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		assert.Equal(t, procurement.OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("Over-receipt is marked as excess and still counted in stock", func(t *testing.T) {
		f := newInwardFixture(t)
		order := f.seedOrder(t, 100)

		resp, err := f.service.Create(ctx, CreateInwardRequest{
			OrderID:    &order.ID,
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(120), UnitPrice: decimal.NewFromFloat(5)}},
		})
		require.NoError(t, err)

		assert.Equal(t, procurement.OrderStatusCompleted, order.Status)
		assert.True(t, order.Items[0].PendingQuantity.IsZero())

		require.Len(t, resp.Batches, 1)
		assert.True(t, resp.Batches[0].ExcessQuantity.Equal(decimal.NewFromFloat(20)))
		assert.True(t, resp.Batches[0].UnusedQuantity.Equal(decimal.NewFromFloat(120)))

		// the excess is sellable: stock carries the full quantity
		stock := f.stocks.stocks[f.product.ID]
		assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(120)))
	})

	t.Run("Receipt for an unknown product fails", func(t *testing.T) {
		f := newInwardFixture(t)

		_, err := f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: uuid.New(), BatchNumber: "B1", Quantity: decimal.NewFromFloat(10), UnitPrice: decimal.NewFromFloat(5)}},
		})
		assert.Error(t, err)
	})

	t.Run("Receipt for an inactive product fails", func(t *testing.T) {
		f := newInwardFixture(t)
		f.product.Deactivate()

		_, err := f.service.Create(ctx, CreateInwardRequest{
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(10), UnitPrice: decimal.NewFromFloat(5)}},
		})
		assert.Error(t, err)
	})

	t.Run("Receipt against a cancelled order fails", func(t *testing.T) {
		f := newInwardFixture(t)
		order := f.seedOrder(t, 100)
		require.NoError(t, order.Cancel("vendor out of stock"))

		_, err := f.service.Create(ctx, CreateInwardRequest{
			OrderID:    &order.ID,
			VendorName: "Acme Pharma",
			Items:      []CreateInwardItemRequest{{ProductID: f.product.ID, BatchNumber: "B1", Quantity: decimal.NewFromFloat(10), UnitPrice: decimal.NewFromFloat(5)}},
		})
		assert.Error(t, err)
	})

	t.Run("Rejects empty item list", func(t *testing.T) {
		f := newInwardFixture(t)
		_, err := f.service.Create(ctx, CreateInwardRequest{VendorName: "Acme Pharma"})
		assert.Error(t, err)
	})
}
