package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/catalog"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductCache caches product lookups. Implementations must treat the
// cache as advisory: a miss or a cache error falls through to the
// repository.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool)
	Set(ctx context.Context, product *catalog.Product)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// CreateProductRequest is the application-level request for creating a
// product
type CreateProductRequest struct {
	Code         string
	Name         string
	Description  string
	Unit         string
	SellingPrice decimal.Decimal
}

// ProductListFilter carries list query options
type ProductListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToProductResponse maps a product to its API view
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

// ProductService handles product reference data
type ProductService struct {
	productRepo    catalog.ProductRepository
	cache          ProductCache
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetCache sets the read-through lookup cache
func (s *ProductService) SetCache(cache ProductCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByCode(ctx, req.Code)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product code already exists: "+req.Code)
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if !req.SellingPrice.IsZero() {
		if err := product.SetSellingPrice(req.SellingPrice); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range product.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product, consulting the cache first
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			response := ToProductResponse(product)
			return &response, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's basic information and price
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, name, description string, sellingPrice decimal.Decimal) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(name, description); err != nil {
		return nil, err
	}
	if err := product.SetSellingPrice(sellingPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for idx := range products {
		responses = append(responses, ToProductResponse(&products[idx]))
	}
	return responses, total, nil
}
