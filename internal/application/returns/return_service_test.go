package returns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/returns"
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
func (f *fakeProductRepo) FindByIDs(context.Context, []uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}

type fakeInwardRepo struct{}

func (f *fakeInwardRepo) FindByID(context.Context, uuid.UUID) (*inventory.Inward, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeInwardRepo) FindAll(context.Context, shared.Filter) ([]inventory.Inward, error) {
	return nil, nil
}
func (f *fakeInwardRepo) Save(context.Context, *inventory.Inward) error       { return nil }
func (f *fakeInwardRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (f *fakeInwardRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeInwardRepo) FindByNumber(context.Context, string) (*inventory.Inward, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeInwardRepo) AddConsumption(context.Context, uuid.UUID, inventory.ConsumptionBucket, decimal.Decimal) error {
	return nil
}

type fakeBatchRepo struct {
	batches map[uuid.UUID]*inventory.Batch
}

func (f *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Batch, error) {
	if b, ok := f.batches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeBatchRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.Batch, error) {
	return f.FindByIDsForUpdate(ctx, ids)
}
func (f *fakeBatchRepo) FindByProductForUpdate(_ context.Context, productID uuid.UUID) ([]*inventory.Batch, error) {
	out := make([]*inventory.Batch, 0)
	for _, b := range f.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}
func (f *fakeBatchRepo) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]*inventory.Batch, error) {
	out := make([]*inventory.Batch, 0, len(ids))
	for _, id := range ids {
		if b, ok := f.batches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}
func (f *fakeBatchRepo) SaveAll(_ context.Context, batches []*inventory.Batch) error {
	for _, b := range batches {
		f.batches[b.ID] = b
	}
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

type fakeReturnRepo struct {
	returns map[uuid.UUID]*returns.Return
}

func (f *fakeReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*returns.Return, error) {
	if r, ok := f.returns[id]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeReturnRepo) FindAll(context.Context, shared.Filter) ([]returns.Return, error) {
	return nil, nil
}
func (f *fakeReturnRepo) Save(_ context.Context, r *returns.Return) error {
	f.returns[r.ID] = r
	return nil
}
func (f *fakeReturnRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (f *fakeReturnRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeReturnRepo) FindByNumber(context.Context, string) (*returns.Return, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeReturnRepo) SaveWithLock(ctx context.Context, r *returns.Return) error {
	return f.Save(ctx, r)
}

type returnFixture struct {
	service   *ReturnService
	batches   *fakeBatchRepo
	stocks    *fakeStockRepo
	rets      *fakeReturnRepo
	productID uuid.UUID
}

func newReturnFixture(t *testing.T, shelfQuantity float64) *returnFixture {
	t.Helper()

	products := &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
	f := &returnFixture{
		batches: &fakeBatchRepo{batches: make(map[uuid.UUID]*inventory.Batch)},
		stocks:  &fakeStockRepo{stocks: make(map[uuid.UUID]*inventory.Stock)},
		rets:    &fakeReturnRepo{returns: make(map[uuid.UUID]*returns.Return)},
	}

	product, err := catalog.NewProduct("AMOX250", "Amoxicillin 250mg", "capsule")
	require.NoError(t, err)
	products.products[product.ID] = product
	f.productID = product.ID

	if shelfQuantity > 0 {
		batch, err := inventory.NewBatch(uuid.New(), product.ID, "B1", decimal.NewFromFloat(shelfQuantity), decimal.NewFromFloat(8), nil, time.Now())
		require.NoError(t, err)
		batch.Sequence = 1
		f.batches.batches[batch.ID] = batch

		stock, err := inventory.NewStock(product.ID)
		require.NoError(t, err)
		require.NoError(t, stock.ApplyReceipt(decimal.NewFromFloat(shelfQuantity)))
		f.stocks.stocks[product.ID] = stock
	}

	scope := appinventory.NewNoOpTransactionScope(products, nil, &fakeInwardRepo{}, f.batches, f.stocks, nil, f.rets)
	f.service = NewReturnService(scope, f.rets)
	return f
}

func TestReturnServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending return touches no stock", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		resp, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName: "Acme Pharma",
			Reason:     "expired",
			Items:      []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(30)}},
		})
		require.NoError(t, err)

		assert.Equal(t, string(returns.ReturnStatusPending), resp.Status)
		stock := f.stocks.stocks[f.productID]
		assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(100)))
		assert.True(t, stock.ReturnQuantity.IsZero())
	})

	t.Run("ProcessImmediately drains stock in the same call", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		resp, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName:         "Acme Pharma",
			Reason:             "expired",
			ProcessImmediately: true,
			Items:              []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(30)}},
		})
		require.NoError(t, err)

		assert.Equal(t, string(returns.ReturnStatusProcessed), resp.Status)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromFloat(8)))
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(240)))

		stock := f.stocks.stocks[f.productID]
		assert.True(t, stock.Quantity.Equal(decimal.NewFromFloat(70)))
		assert.True(t, stock.ReturnQuantity.Equal(decimal.NewFromFloat(30)))
	})

	t.Run("Billing linkage and line tax are retained", func(t *testing.T) {
		f := newReturnFixture(t, 100)
		billingID := uuid.New()

		resp, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName:         "Acme Pharma",
			BillingID:          &billingID,
			ProcessImmediately: true,
			Items: []ReturnItemRequest{{
				ProductID: f.productID,
				Quantity:  decimal.NewFromFloat(10),
				TaxAmount: decimal.NewFromFloat(4),
				Reason:    "short-dated",
			}},
		})
		require.NoError(t, err)

		require.NotNil(t, resp.BillingID)
		assert.Equal(t, billingID, *resp.BillingID)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "short-dated", resp.Items[0].Reason)
		// 10 x 8 allocated cost + 4 line tax
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(84)))
	})

	t.Run("Rejects empty item list", func(t *testing.T) {
		f := newReturnFixture(t, 100)
		_, err := f.service.Create(ctx, CreateReturnRequest{VendorName: "Acme Pharma"})
		assert.Error(t, err)
	})
}

func TestReturnServiceProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("Processing a pending return consumes its lines", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		created, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName: "Acme Pharma",
			Items:      []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(40)}},
		})
		require.NoError(t, err)

		processed, err := f.service.Process(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(returns.ReturnStatusProcessed), processed.Status)
		require.Len(t, processed.Items, 1)
		assert.Len(t, processed.Items[0].Allocations, 1)

		stock := f.stocks.stocks[f.productID]
		assert.True(t, stock.ReturnQuantity.Equal(decimal.NewFromFloat(40)))
	})

	t.Run("Processing twice conflicts", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		created, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName:         "Acme Pharma",
			ProcessImmediately: true,
			Items:              []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(40)}},
		})
		require.NoError(t, err)

		_, err = f.service.Process(ctx, created.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "CONFLICT", domainErr.Code)

		// the double process must not drain a second time
		stock := f.stocks.stocks[f.productID]
		assert.True(t, stock.ReturnQuantity.Equal(decimal.NewFromFloat(40)))
	})

	t.Run("Processing with insufficient stock fails", func(t *testing.T) {
		f := newReturnFixture(t, 20)

		created, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName: "Acme Pharma",
			Items:      []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(50)}},
		})
		require.NoError(t, err)

		_, err = f.service.Process(ctx, created.ID)
		require.Error(t, err)
		var insufficientErr *inventory.InsufficientStockError
		require.True(t, errors.As(err, &insufficientErr))
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromFloat(20)))
	})
}

func TestReturnServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending return cancels cleanly", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		created, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName: "Acme Pharma",
			Items:      []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(10)}},
		})
		require.NoError(t, err)

		cancelled, err := f.service.Cancel(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, string(returns.ReturnStatusCancelled), cancelled.Status)
	})

	t.Run("Processed return cannot be cancelled", func(t *testing.T) {
		f := newReturnFixture(t, 100)

		created, err := f.service.Create(ctx, CreateReturnRequest{
			VendorName:         "Acme Pharma",
			ProcessImmediately: true,
			Items:              []ReturnItemRequest{{ProductID: f.productID, Quantity: decimal.NewFromFloat(10)}},
		})
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, created.ID)
		assert.Error(t, err)
	})
}
