package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/billing"
	"github.com/hms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBillingRepository implements BillingRepository using GORM
type GormBillingRepository struct {
	db *gorm.DB
}

// NewGormBillingRepository creates a new GormBillingRepository
func NewGormBillingRepository(db *gorm.DB) *GormBillingRepository {
	return &GormBillingRepository{db: db}
}

// FindByID finds a billing with its items
func (r *GormBillingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Billing, error) {
	var b billing.Billing
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByNumber finds a billing by its billing number
func (r *GormBillingRepository) FindByNumber(ctx context.Context, billingNumber string) (*billing.Billing, error) {
	var b billing.Billing
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&b, "billing_number = ?", billingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds billings matching the filter
func (r *GormBillingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Billing, error) {
	var billings []billing.Billing
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Billing{}), filter)
	if err := query.Preload("Items").Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

// Save creates or updates a billing with its items
func (r *GormBillingRepository) Save(ctx context.Context, b *billing.Billing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(b).Error; err != nil {
			return err
		}
		return r.saveItems(tx, b)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBillingRepository) SaveWithLock(ctx context.Context, b *billing.Billing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Billing{}).
			Where("id = ? AND version = ?", b.ID, b.Version-1).
			Updates(map[string]interface{}{
				"patient_name": b.PatientName,
				"patient_ref":  b.PatientRef,
				"subtotal":     b.Subtotal,
				"discount":     b.Discount,
				"tax":          b.Tax,
				"total":        b.Total,
				"paid":         b.Paid,
				"due":          b.Due,
				"status":       b.Status,
				"cancelled_at": b.CancelledAt,
				"version":      b.Version,
				"updated_at":   b.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveItems(tx, b)
	})
}

// Delete deletes a billing and its items
func (r *GormBillingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("billing_id = ?", id).Delete(&billing.BillingItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.Billing{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts billings matching the filter
func (r *GormBillingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.Billing{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveItems replaces the billing's item rows with the current item
// list. Billing updates swap the full line set, so stale rows are
// removed first.
func (r *GormBillingRepository) saveItems(tx *gorm.DB, b *billing.Billing) error {
	itemIDs := make([]uuid.UUID, len(b.Items))
	for i, item := range b.Items {
		itemIDs[i] = item.ID
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("billing_id = ? AND id NOT IN ?", b.ID, itemIDs).
			Delete(&billing.BillingItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("billing_id = ?", b.ID).
			Delete(&billing.BillingItem{}).Error; err != nil {
			return err
		}
	}

	for i := range b.Items {
		b.Items[i].BillingID = b.ID
		if err := tx.Save(&b.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormBillingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BillingSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBillingRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("billing_number ILIKE ? OR patient_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "patient_name":
			query = query.Where("patient_name = ?", value)
		}
	}

	return query
}

// Ensure GormBillingRepository implements BillingRepository
var _ billing.BillingRepository = (*GormBillingRepository)(nil)
