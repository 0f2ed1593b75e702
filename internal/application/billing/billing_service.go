package billing

import (
	"context"

	"github.com/google/uuid"
	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
)

// BillingService handles patient billing operations. Every mutating
// operation runs in one transaction covering the billing, the consumed
// batches, the inward rollups and the stock aggregates.
type BillingService struct {
	scope          appinventory.TransactionScope
	billingRepo    billing.BillingRepository
	eventPublisher shared.EventPublisher
}

// NewBillingService creates a new BillingService
func NewBillingService(scope appinventory.TransactionScope, billingRepo billing.BillingRepository) *BillingService {
	return &BillingService{
		scope:       scope,
		billingRepo: billingRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *BillingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create bills a patient. Each line is allocated FIFO across the
// product's batches; a shortfall on any line aborts the whole billing
// with nothing consumed.
func (s *BillingService) Create(ctx context.Context, req CreateBillingRequest) (*BillingResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Billing must have at least one item")
	}

	billingNumber := req.BillingNumber
	if billingNumber == "" {
		billingNumber = appinventory.GenerateNumber("BIL")
	}

	var created *billing.Billing
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		b, err := billing.NewBilling(billingNumber, req.PatientName, req.BilledBy)
		if err != nil {
			return err
		}
		b.PatientRef = req.PatientRef

		if err := s.allocateItems(ctx, repos, b, req.Items); err != nil {
			return err
		}

		if err := b.SetCharges(req.Discount, req.Tax, req.Paid); err != nil {
			return err
		}

		if err := repos.Billings().Save(ctx, b); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created.GetDomainEvents())

	response := ToBillingResponse(created)
	return &response, nil
}

// Update replaces the billing's lines: the old lines' recorded
// allocations are reversed first, then the new lines are allocated
// fresh, all in one transaction. The net stock effect equals deleting
// the old billing and creating a new one.
func (s *BillingService) Update(ctx context.Context, id uuid.UUID, req UpdateBillingRequest) (*BillingResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Billing must have at least one item")
	}

	var updated *billing.Billing
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		b, err := repos.Billings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !b.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Cannot update a cancelled billing")
		}

		if err := s.reverseItems(ctx, repos, b); err != nil {
			return err
		}
		if err := b.ClearItems(); err != nil {
			return err
		}

		if err := s.allocateItems(ctx, repos, b, req.Items); err != nil {
			return err
		}

		if err := b.SetCharges(req.Discount, req.Tax, req.Paid); err != nil {
			return err
		}

		b.AddDomainEvent(billing.NewBillingUpdatedEvent(b))

		if err := repos.Billings().SaveWithLock(ctx, b); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated.GetDomainEvents())

	response := ToBillingResponse(updated)
	return &response, nil
}

// Cancel soft-cancels a billing and reverses every line's recorded
// allocations, returning the quantity to the shelf.
func (s *BillingService) Cancel(ctx context.Context, id uuid.UUID) error {
	var cancelled *billing.Billing
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		b, err := repos.Billings().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := b.Cancel(); err != nil {
			return err
		}

		if err := s.reverseItems(ctx, repos, b); err != nil {
			return err
		}

		if err := repos.Billings().SaveWithLock(ctx, b); err != nil {
			return err
		}

		cancelled = b
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, cancelled.GetDomainEvents())
	return nil
}

// GetByID retrieves a billing by ID
func (s *BillingService) GetByID(ctx context.Context, id uuid.UUID) (*BillingResponse, error) {
	b, err := s.billingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBillingResponse(b)
	return &response, nil
}

// List retrieves billings with filtering and pagination
func (s *BillingService) List(ctx context.Context, filter BillingListFilter) ([]BillingResponse, int64, error) {
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
	if filter.PatientName != "" {
		domainFilter.Filters["patient_name"] = filter.PatientName
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	billings, err := s.billingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.billingRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BillingResponse, 0, len(billings))
	for idx := range billings {
		responses = append(responses, ToBillingResponse(&billings[idx]))
	}
	return responses, total, nil
}

// allocateItems consumes stock for every requested line and attaches
// the priced lines to the billing
func (s *BillingService) allocateItems(ctx context.Context, repos appinventory.TransactionalRepositories, b *billing.Billing, items []BillingItemRequest) error {
	for _, item := range items {
		product, err := repos.Products().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		plan, err := appinventory.ConsumeStock(ctx, repos, item.ProductID, item.Quantity, inventory.BucketBilling)
		if err != nil {
			return err
		}

		if _, err := b.AddAllocatedItem(product.Name, plan, item.DiscountAmount, item.TaxAmount); err != nil {
			return err
		}
	}
	return nil
}

// reverseItems releases the recorded allocations of every line
func (s *BillingService) reverseItems(ctx context.Context, repos appinventory.TransactionalRepositories, b *billing.Billing) error {
	for _, item := range b.Items {
		if err := appinventory.ReleaseStock(ctx, repos, item.ProductID, inventory.BucketBilling, item.Allocations); err != nil {
			return err
		}
	}
	return nil
}

func (s *BillingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
