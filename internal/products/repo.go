package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists vendor products.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *GormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &GormRepository{base: r.base.Rebind(tx)}
}

// FindByID loads one product.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.base.DB(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the subset of the given ids that belong to the vendor.
func (r *GormRepository) FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.base.DB(ctx).
		Where("vendor_id = ? AND id IN ?", vendorID, ids).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByVendor returns all products for a vendor in insertion order.
func (r *GormRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.base.DB(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a product.
func (r *GormRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the provided product.
func (r *GormRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes one product.
func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// DeleteByIDs removes the given vendor-owned products.
func (r *GormRepository) DeleteByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.base.DB(ctx).
		Where("vendor_id = ? AND id IN ?", vendorID, ids).
		Delete(&models.Product{}).Error
}
