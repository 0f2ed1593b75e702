package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInwardRepository implements InwardRepository using GORM
type GormInwardRepository struct {
	db *gorm.DB
}

// NewGormInwardRepository creates a new GormInwardRepository
func NewGormInwardRepository(db *gorm.DB) *GormInwardRepository {
	return &GormInwardRepository{db: db}
}

// FindByID finds a goods receipt with its batches
func (r *GormInwardRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Inward, error) {
	var inward inventory.Inward
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		First(&inward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inward, nil
}

// FindByNumber finds a goods receipt by its inward number
func (r *GormInwardRepository) FindByNumber(ctx context.Context, inwardNumber string) (*inventory.Inward, error) {
	var inward inventory.Inward
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		First(&inward, "inward_number = ?", inwardNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inward, nil
}

// FindAll finds goods receipts matching the filter
func (r *GormInwardRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Inward, error) {
	var inwards []inventory.Inward
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Inward{}), filter)
	if err := query.Preload("Batches").Find(&inwards).Error; err != nil {
		return nil, err
	}
	return inwards, nil
}

// Save creates or updates a goods receipt with its batches. Batch
// sequence numbers are assigned by the database on insert.
func (r *GormInwardRepository) Save(ctx context.Context, inward *inventory.Inward) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Batches").Save(inward).Error; err != nil {
			return err
		}
		for i := range inward.Batches {
			inward.Batches[i].InwardID = inward.ID
			if err := tx.Save(&inward.Batches[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a goods receipt and its batches
func (r *GormInwardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inward_id = ?", id).Delete(&inventory.Batch{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.Inward{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts goods receipts matching the filter
func (r *GormInwardRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Inward{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddConsumption adjusts a receipt's consumption rollup in place. A
// negative delta records a reversal. The increment happens in SQL so
// concurrent allocations against different batches of the same receipt
// never clobber each other.
func (r *GormInwardRepository) AddConsumption(ctx context.Context, inwardID uuid.UUID, bucket inventory.ConsumptionBucket, delta decimal.Decimal) error {
	var column string
	switch bucket {
	case inventory.BucketBilling:
		column = "billing_quantity"
	case inventory.BucketReturn:
		column = "return_quantity"
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown consumption bucket: "+string(bucket))
	}

	result := r.db.WithContext(ctx).
		Model(&inventory.Inward{}).
		Where("id = ?", inwardID).
		Update(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormInwardRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InwardSortFields, "received_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInwardRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("inward_number ILIKE ? OR vendor_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "vendor_name":
			query = query.Where("vendor_name = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormInwardRepository implements InwardRepository
var _ inventory.InwardRepository = (*GormInwardRepository)(nil)
