package procurement

import (
	"context"

	"github.com/hms/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for purchase orders.
// Implementations must load and save the order together with its items
// (the aggregate boundary).
type OrderRepository interface {
	shared.Repository[Order]
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	// SaveWithLock saves the order using optimistic locking on the
	// version column and returns ErrConcurrencyConflict when the row
	// was modified by another process.
	SaveWithLock(ctx context.Context, order *Order) error
}
