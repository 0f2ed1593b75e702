package returns

import (
	"context"

	"github.com/google/uuid"
	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/returns"
	"github.com/hms/backend/internal/domain/shared"
)

// ReturnService handles vendor return operations
type ReturnService struct {
	scope          appinventory.TransactionScope
	returnRepo     returns.ReturnRepository
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope appinventory.TransactionScope, returnRepo returns.ReturnRepository) *ReturnService {
	return &ReturnService{
		scope:      scope,
		returnRepo: returnRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a vendor return. With ProcessImmediately the stock is
// drained in the same transaction; otherwise the return stays pending
// and consumes nothing until Process is called.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Return must have at least one item")
	}

	returnNumber := req.ReturnNumber
	if returnNumber == "" {
		returnNumber = appinventory.GenerateNumber("RET")
	}

	var created *returns.Return
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		r, err := returns.NewReturn(returnNumber, req.VendorName, req.Reason, req.CreatedBy)
		if err != nil {
			return err
		}
		r.BillingID = req.BillingID

		for _, item := range req.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if _, err := r.AddItem(item.ProductID, product.Name, item.Quantity, item.TaxAmount, item.Reason); err != nil {
				return err
			}
		}

		if req.ProcessImmediately {
			if err := s.process(ctx, repos, r); err != nil {
				return err
			}
		}

		if err := repos.Returns().Save(ctx, r); err != nil {
			return err
		}

		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created.GetDomainEvents())

	response := ToReturnResponse(created)
	return &response, nil
}

// Process drains stock for a pending return. Processing an already
// processed return is a conflict.
func (s *ReturnService) Process(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	var processed *returns.Return
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		r, err := repos.Returns().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.process(ctx, repos, r); err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}

		processed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, processed.GetDomainEvents())

	response := ToReturnResponse(processed)
	return &response, nil
}

// Cancel cancels a pending return. Nothing was consumed, so nothing is
// reversed.
func (s *ReturnService) Cancel(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	var cancelled *returns.Return
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		r, err := repos.Returns().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := r.Cancel(); err != nil {
			return err
		}

		if err := repos.Returns().SaveWithLock(ctx, r); err != nil {
			return err
		}

		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(cancelled)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	r, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(r)
	return &response, nil
}

// List retrieves returns with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	rets, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnResponse, 0, len(rets))
	for idx := range rets {
		responses = append(responses, ToReturnResponse(&rets[idx]))
	}
	return responses, total, nil
}

// process allocates every line into the return bucket and marks the
// return processed. The status check happens first so a terminal
// return conflicts before any stock is touched.
func (s *ReturnService) process(ctx context.Context, repos appinventory.TransactionalRepositories, r *returns.Return) error {
	if !r.IsPending() {
		// delegate to the domain for the precise error
		return r.MarkProcessed()
	}

	for idx := range r.Items {
		item := &r.Items[idx]
		plan, err := appinventory.ConsumeStock(ctx, repos, item.ProductID, item.Quantity, inventory.BucketReturn)
		if err != nil {
			return err
		}
		if err := r.RecordItemAllocation(item.ID, plan); err != nil {
			return err
		}
	}

	return r.MarkProcessed()
}

func (s *ReturnService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
