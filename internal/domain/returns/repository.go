package returns

import (
	"context"

	"github.com/hms/backend/internal/domain/shared"
)

// ReturnRepository defines persistence operations for vendor returns.
// Implementations load and save the return together with its items
// (the aggregate boundary).
type ReturnRepository interface {
	shared.Repository[Return]
	FindByNumber(ctx context.Context, returnNumber string) (*Return, error)
	// SaveWithLock saves the return using optimistic locking on the
	// version column and returns ErrConcurrencyConflict when the row
	// was modified by another process.
	SaveWithLock(ctx context.Context, r *Return) error
}
