package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/catalog"
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
	out := make([]procurement.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}
func (f *fakeOrderRepo) Save(_ context.Context, o *procurement.Order) error {
	f.orders[o.ID] = o
	return nil
}
func (f *fakeOrderRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (f *fakeOrderRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(f.orders)), nil
}
func (f *fakeOrderRepo) FindByNumber(context.Context, string) (*procurement.Order, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeOrderRepo) SaveWithLock(ctx context.Context, o *procurement.Order) error {
	return f.Save(ctx, o)
}

type orderFixture struct {
	service  *OrderService
	products *fakeProductRepo
	orders   *fakeOrderRepo
	product  *catalog.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		products: &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)},
		orders:   &fakeOrderRepo{orders: make(map[uuid.UUID]*procurement.Order)},
	}

	product, err := catalog.NewProduct("OMEP20", "Omeprazole 20mg", "capsule")
	require.NoError(t, err)
	f.products.products[product.ID] = product
	f.product = product

	scope := appinventory.NewNoOpTransactionScope(f.products, f.orders, nil, nil, nil, nil, nil)
	f.service = NewOrderService(scope, f.orders)
	return f
}

func TestOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a pending order with computed totals", func(t *testing.T) {
		f := newOrderFixture(t)

		resp, err := f.service.Create(ctx, CreateOrderRequest{
			OrderNumber: "PO-100",
			VendorName:  "Acme Pharma",
			Items: []OrderItemRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(40), UnitCost: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PO-100", resp.OrderNumber)
		assert.Equal(t, string(procurement.OrderStatusPending), resp.Status)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(120)))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, f.product.Name, resp.Items[0].ProductName)
		assert.True(t, resp.Items[0].PendingQuantity.Equal(decimal.NewFromInt(40)))
	})

	t.Run("Generates an order number when omitted", func(t *testing.T) {
		f := newOrderFixture(t)

		resp, err := f.service.Create(ctx, CreateOrderRequest{
			VendorName: "Acme Pharma",
			Items:      []OrderItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.OrderNumber)
	})

	t.Run("Rejects empty item list", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.service.Create(ctx, CreateOrderRequest{VendorName: "Acme Pharma"})
		assert.Error(t, err)
	})

	t.Run("Rejects unknown product", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.service.Create(ctx, CreateOrderRequest{
			VendorName: "Acme Pharma",
			Items:      []OrderItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Rejects inactive product", func(t *testing.T) {
		f := newOrderFixture(t)
		f.product.Deactivate()

		_, err := f.service.Create(ctx, CreateOrderRequest{
			VendorName: "Acme Pharma",
			Items:      []OrderItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)}},
		})
		assert.Error(t, err)
	})
}

func TestOrderServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *orderFixture) *OrderResponse {
		t.Helper()
		resp, err := f.service.Create(ctx, CreateOrderRequest{
			VendorName: "Acme Pharma",
			Items:      []OrderItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(2)}},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("Approve moves a pending order to approved", func(t *testing.T) {
		f := newOrderFixture(t)
		created := create(t, f)

		resp, err := f.service.Approve(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(procurement.OrderStatusApproved), resp.Status)
	})

	t.Run("Approve of an already approved order fails", func(t *testing.T) {
		f := newOrderFixture(t)
		created := create(t, f)

		_, err := f.service.Approve(ctx, created.ID)
		require.NoError(t, err)
		_, err = f.service.Approve(ctx, created.ID)
		assert.Error(t, err)
	})

	t.Run("Cancel records the reason", func(t *testing.T) {
		f := newOrderFixture(t)
		created := create(t, f)

		resp, err := f.service.Cancel(ctx, created.ID, "vendor discontinued the line")
		require.NoError(t, err)
		assert.Equal(t, string(procurement.OrderStatusCancelled), resp.Status)

		stored := f.orders.orders[created.ID]
		assert.Equal(t, "vendor discontinued the line", stored.Remark)
		assert.NotNil(t, stored.CancelledAt)
	})

	t.Run("Unknown order id propagates not found", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.service.Approve(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
