package billing

import (
	"context"

	"github.com/hms/backend/internal/domain/shared"
)

// BillingRepository defines persistence operations for billings.
// Implementations load and save the billing together with its items
// (the aggregate boundary); replacing items deletes the old rows.
type BillingRepository interface {
	shared.Repository[Billing]
	FindByNumber(ctx context.Context, billingNumber string) (*Billing, error)
	// SaveWithLock saves the billing using optimistic locking on the
	// version column and returns ErrConcurrencyConflict when the row
	// was modified by another process.
	SaveWithLock(ctx context.Context, b *Billing) error
}
