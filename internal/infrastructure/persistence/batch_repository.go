package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/inventory"
	"github.com/hms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements BatchRepository using GORM. The
// ForUpdate variants take row locks so concurrent allocations against
// the same product serialize at the database.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDs finds multiple batches by their IDs
func (r *GormBatchRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.Batch, error) {
	if len(ids) == 0 {
		return []*inventory.Batch{}, nil
	}

	var batches []*inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("received_at ASC, sequence ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByProductForUpdate loads all batches of a product with row locks
// held until the surrounding transaction ends. Outside a transaction
// the locking clause is a no-op.
func (r *GormBatchRepository) FindByProductForUpdate(ctx context.Context, productID uuid.UUID) ([]*inventory.Batch, error) {
	var batches []*inventory.Batch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("received_at ASC, sequence ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByIDsForUpdate loads the given batches with row locks held until
// the surrounding transaction ends
func (r *GormBatchRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*inventory.Batch, error) {
	if len(ids) == 0 {
		return []*inventory.Batch{}, nil
	}

	var batches []*inventory.Batch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("received_at ASC, sequence ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SaveAll persists the bucket quantities of the given batches
func (r *GormBatchRepository) SaveAll(ctx context.Context, batches []*inventory.Batch) error {
	for _, batch := range batches {
		result := r.db.WithContext(ctx).
			Model(batch).
			Where("id = ?", batch.ID).
			Updates(map[string]interface{}{
				"unused_quantity":  batch.UnusedQuantity,
				"billing_quantity": batch.BillingQuantity,
				"return_quantity":  batch.ReturnQuantity,
				"excess_quantity":  batch.ExcessQuantity,
				"updated_at":       batch.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
	}
	return nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
