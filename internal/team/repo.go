package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists vendor team memberships.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a team repository bound to the provided DB.
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

// FindMembership loads the membership row for (user, vendor).
func (r *GormRepository) FindMembership(ctx context.Context, userID, vendorID uuid.UUID) (*models.VendorTeamMember, error) {
	var member models.VendorTeamMember
	err := r.base.DB(ctx).
		Where("user_id = ? AND vendor_id = ?", userID, vendorID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByVendor returns all memberships for a vendor with user details attached.
func (r *GormRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.VendorTeamMember, error) {
	var rows []models.VendorTeamMember
	err := r.base.DB(ctx).
		Preload("User").
		Where("vendor_id = ?", vendorID).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListVendorIDsByUser returns the vendor ids the user belongs to.
func (r *GormRepository) ListVendorIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.base.DB(ctx).
		Model(&models.VendorTeamMember{}).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Pluck("vendor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListAllVendorIDs returns every active vendor id. Used for the admin bypass.
func (r *GormRepository) ListAllVendorIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.base.DB(ctx).
		Model(&models.Vendor{}).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Create inserts a membership row.
func (r *GormRepository) Create(ctx context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error) {
	if err := r.base.DB(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes the membership row for (user, vendor).
func (r *GormRepository) Delete(ctx context.Context, userID, vendorID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("user_id = ? AND vendor_id = ?", userID, vendorID).
		Delete(&models.VendorTeamMember{}).Error
}

// UserExists reports whether a user row exists.
func (r *GormRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// VendorExists reports whether a vendor row exists.
func (r *GormRepository) VendorExists(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Count(&count).Error
	return count > 0, err
}
