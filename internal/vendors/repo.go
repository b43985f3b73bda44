package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists vendors through gorm.
type GormRepository struct {
	base repo.Base
}

// NewRepository builds a vendor repository over the given connection.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.base.DB(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *GormRepository) Update(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.base.DB(ctx).Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}
