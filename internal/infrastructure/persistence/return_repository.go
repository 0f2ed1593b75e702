package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/returns"
	"github.com/hms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a vendor return with its items
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.Return, error) {
	var ret returns.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByNumber finds a vendor return by its return number
func (r *GormReturnRepository) FindByNumber(ctx context.Context, returnNumber string) (*returns.Return, error) {
	var ret returns.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "return_number = ?", returnNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAll finds vendor returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.Return, error) {
	var rets []returns.Return
	query := r.applyFilter(r.db.WithContext(ctx).Model(&returns.Return{}), filter)
	if err := query.Preload("Items").Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// Save creates or updates a vendor return with its items
func (r *GormReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(ret).Error; err != nil {
			return err
		}
		return r.saveItems(tx, ret)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *returns.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&returns.Return{}).
			Where("id = ? AND version = ?", ret.ID, ret.Version-1).
			Updates(map[string]interface{}{
				"vendor_name":  ret.VendorName,
				"total_amount": ret.TotalAmount,
				"status":       ret.Status,
				"reason":       ret.Reason,
				"processed_at": ret.ProcessedAt,
				"cancelled_at": ret.CancelledAt,
				"version":      ret.Version,
				"updated_at":   ret.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveItems(tx, ret)
	})
}

// Delete deletes a vendor return and its items
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("return_id = ?", id).Delete(&returns.ReturnItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&returns.Return{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts vendor returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&returns.Return{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveItems replaces the return's item rows with the current item list
func (r *GormReturnRepository) saveItems(tx *gorm.DB, ret *returns.Return) error {
	itemIDs := make([]uuid.UUID, len(ret.Items))
	for i, item := range ret.Items {
		itemIDs[i] = item.ID
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("return_id = ? AND id NOT IN ?", ret.ID, itemIDs).
			Delete(&returns.ReturnItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("return_id = ?", ret.ID).
			Delete(&returns.ReturnItem{}).Error; err != nil {
			return err
		}
	}

	for i := range ret.Items {
		ret.Items[i].ReturnID = ret.ID
		if err := tx.Save(&ret.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReturnSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReturnRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("return_number ILIKE ? OR vendor_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vendor_name":
			query = query.Where("vendor_name = ?", value)
		}
	}

	return query
}

// Ensure GormReturnRepository implements ReturnRepository
var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
