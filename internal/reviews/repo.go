package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists reviews and vendor responses.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a review repository bound to the provided DB.
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

// FindByID loads a review with its response, if any.
func (r *GormRepository) FindByID(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.base.DB(ctx).
		Preload("Response").
		Where("id = ?", reviewID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a review.
func (r *GormRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.base.DB(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateResponse inserts the vendor's response row.
func (r *GormRepository) CreateResponse(ctx context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error) {
	if err := r.base.DB(ctx).Create(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateResponse saves an edited response in place.
func (r *GormRepository) UpdateResponse(ctx context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error) {
	if err := r.base.DB(ctx).Save(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

// VendorActive reports whether the vendor exists and is active.
func (r *GormRepository) VendorActive(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.Vendor{}).
		Where("id = ? AND is_active = ?", vendorID, true).
		Count(&count).Error
	return count > 0, err
}
