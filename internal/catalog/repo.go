package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// Repository defines the read surface required by the catalog service.
type Repository interface {
	ListActiveVendors(ctx context.Context) ([]models.Vendor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// GormRepository reads vendors for the public storefront.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

// ListActiveVendors loads every active vendor with products and reviews
// attached, in insertion order.
func (r *GormRepository) ListActiveVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.base.DB(ctx).
		Preload("Products").
		Preload("Reviews").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindByID loads one vendor with products, reviews and review responses.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.base.DB(ctx).
		Preload("Products").
		Preload("Reviews").
		Preload("Reviews.Response").
		Where("id = ? AND is_active = ?", id, true).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
