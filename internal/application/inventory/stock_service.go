package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
)

// StockService serves read-only stock queries
type StockService struct {
	stockRepo inventory.StockRepository
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.StockRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

// GetByProduct retrieves the stock row for a product
func (s *StockService) GetByProduct(ctx context.Context, productID uuid.UUID) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockResponse(stock)
	return &response, nil
}

// List retrieves stock rows with pagination
func (s *StockService) List(ctx context.Context, page, pageSize int) ([]StockResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	filter.OrderBy = "updated_at"

	stocks, err := s.stockRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockResponse, 0, len(stocks))
	for idx := range stocks {
		responses = append(responses, ToStockResponse(&stocks[idx]))
	}
	return responses, total, nil
}
