package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InwardService handles goods receipt operations
type InwardService struct {
	scope          TransactionScope
	inwardRepo     inventory.InwardRepository
	eventPublisher shared.EventPublisher
}

// NewInwardService creates a new InwardService
func NewInwardService(scope TransactionScope, inwardRepo inventory.InwardRepository) *InwardService {
	return &InwardService{
		scope:      scope,
		inwardRepo: inwardRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InwardService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a goods receipt: it creates the inward with its
// batches, draws down the linked order's pending quantities (excess is
// recorded on the batch, never driving pending negative) and grows the
// per-product stock. Everything happens in one transaction.
func (s *InwardService) Create(ctx context.Context, req CreateInwardRequest) (*InwardResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Inward must have at least one item")
	}

	inwardNumber := req.InwardNumber
	if inwardNumber == "" {
		inwardNumber = GenerateNumber("IN")
	}

	var created *inventory.Inward
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.checkActiveProducts(ctx, repos, req.Items); err != nil {
			return err
		}

		var order *procurement.Order
		if req.OrderID != nil {
			var err error
			order, err = repos.Orders().FindByID(ctx, *req.OrderID)
			if err != nil {
				return err
			}
		}

		inward, err := inventory.NewInward(inwardNumber, req.VendorName, req.OrderID, req.ReceivedBy)
		if err != nil {
			return err
		}
		inward.Remark = req.Remark

		receivedByProduct := make(map[uuid.UUID]decimal.Decimal)
		for _, item := range req.Items {
			batchNumber := item.BatchNumber
			if batchNumber == "" {
				batchNumber = inwardNumber
			}
			if _, err := inward.AddBatch(item.ProductID, batchNumber, item.Quantity, item.UnitPrice, item.ExpiryDate); err != nil {
				return err
			}

			if order != nil {
				excess, err := order.ApplyReceipt(item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if excess.GreaterThan(decimal.Zero) {
					if err := inward.Batches[len(inward.Batches)-1].MarkExcess(excess); err != nil {
						return err
					}
				}
			}

			receivedByProduct[item.ProductID] = receivedByProduct[item.ProductID].Add(item.Quantity)
		}

		if err := repos.Inwards().Save(ctx, inward); err != nil {
			return err
		}

		if order != nil {
			if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
				return err
			}
		}

		for productID, quantity := range receivedByProduct {
			if err := s.upsertStock(ctx, repos, productID, quantity); err != nil {
				return err
			}
		}

		created = inward
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created.GetDomainEvents())

	response := ToInwardResponse(created)
	return &response, nil
}

// GetByID retrieves a goods receipt by ID
func (s *InwardService) GetByID(ctx context.Context, id uuid.UUID) (*InwardResponse, error) {
	inward, err := s.inwardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInwardResponse(inward)
	return &response, nil
}

// List retrieves goods receipts with filtering and pagination
func (s *InwardService) List(ctx context.Context, filter InwardListFilter) ([]InwardResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.VendorName != "" {
		domainFilter.Filters["vendor_name"] = filter.VendorName
	}

	inwards, err := s.inwardRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.inwardRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InwardResponse, 0, len(inwards))
	for idx := range inwards {
		responses = append(responses, ToInwardResponse(&inwards[idx]))
	}
	return responses, total, nil
}

func (s *InwardService) checkActiveProducts(ctx context.Context, repos TransactionalRepositories, items []CreateInwardItemRequest) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		byID[products[idx].ID] = &products[idx]
	}

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", "Product not found: "+id.String())
		}
		if !product.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Product is not active: "+product.Code)
		}
	}
	return nil
}

func (s *InwardService) upsertStock(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, quantity decimal.Decimal) error {
	stock, err := repos.Stocks().FindByProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		stock, err = inventory.NewStock(productID)
		if err != nil {
			return err
		}
		if err := stock.ApplyReceipt(quantity); err != nil {
			return err
		}
		return repos.Stocks().Save(ctx, stock)
	}

	if err := stock.ApplyReceipt(quantity); err != nil {
		return err
	}
	return repos.Stocks().SaveWithLock(ctx, stock)
}

func (s *InwardService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
