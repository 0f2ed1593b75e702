package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/hms/backend/internal/application/inventory"
	"github.com/hms/backend/internal/domain/procurement"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the application-level request for a purchase
// order
type CreateOrderRequest struct {
	OrderNumber string
	VendorName  string
	Items       []OrderItemRequest
}

// OrderItemRequest is one product line of an order request
type OrderItemRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// OrderListFilter carries list query options
type OrderListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	VendorName string
	Status     string
}

// OrderItemResponse is the API view of an order line
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	PendingQuantity decimal.Decimal `json:"pending_quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Amount          decimal.Decimal `json:"amount"`
}

// OrderResponse is the API view of a purchase order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	OrderNumber string              `json:"order_number"`
	VendorName  string              `json:"vendor_name"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToOrderResponse maps an order to its API view
func ToOrderResponse(o *procurement.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PendingQuantity: item.PendingQuantity,
			UnitCost:        item.UnitCost,
			Amount:          item.Amount,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		VendorName:  o.VendorName,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CompletedAt: o.CompletedAt,
		CreatedAt:   o.CreatedAt,
	}
}

// OrderService handles purchase order operations
type OrderService struct {
	scope          appinventory.TransactionScope
	orderRepo      procurement.OrderRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(scope appinventory.TransactionScope, orderRepo procurement.OrderRepository) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a purchase order with its lines
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must have at least one item")
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = appinventory.GenerateNumber("PO")
	}

	var created *procurement.Order
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := procurement.NewOrder(orderNumber, req.VendorName)
		if err != nil {
			return err
		}

		for _, item := range req.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive() {
				return shared.NewDomainError("INVALID_STATE", "Product is not active: "+product.Code)
			}
			if _, err := order.AddItem(item.ProductID, product.Name, item.Quantity, item.UnitCost); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range created.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}

	response := ToOrderResponse(created)
	return &response, nil
}

// Approve approves a pending order
func (s *OrderService) Approve(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Approve(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order before any receipt
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	return responses, total, nil
}
