package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// GormRepository persists vendor applications.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs an application repository bound to the provided DB.
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

// Create inserts an application.
func (r *GormRepository) Create(ctx context.Context, application *models.VendorApplication) (*models.VendorApplication, error) {
	if err := r.base.DB(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// FindByID loads one application.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	return r.findByID(r.base.DB(ctx), id)
}

// FindByIDLocked is FindByID holding a row lock for the review transaction.
func (r *GormRepository) FindByIDLocked(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	return r.findByID(r.base.Locked(ctx), id)
}

func (r *GormRepository) findByID(conn *gorm.DB, id uuid.UUID) (*models.VendorApplication, error) {
	var application models.VendorApplication
	if err := conn.Where("id = ?", id).First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// List returns applications, optionally filtered by status, oldest first.
func (r *GormRepository) List(ctx context.Context, status *enums.ApplicationStatus) ([]models.VendorApplication, error) {
	query := r.base.DB(ctx).Order("created_at ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.VendorApplication
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the application.
func (r *GormRepository) Update(ctx context.Context, application *models.VendorApplication) (*models.VendorApplication, error) {
	if err := r.base.DB(ctx).Save(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// VendorNameTaken reports whether a vendor already uses the name.
func (r *GormRepository) VendorNameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.Vendor{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

// PendingNameTaken reports whether a pending application claims the name.
func (r *GormRepository) PendingNameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.base.DB(ctx).
		Model(&models.VendorApplication{}).
		Where("LOWER(business_name) = LOWER(?) AND status = ?", name, enums.ApplicationStatusPending).
		Count(&count).Error
	return count > 0, err
}

// CreateVendor materializes the approved vendor.
func (r *GormRepository) CreateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.base.DB(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// CreateTeamMember inserts the owning membership for the applicant.
func (r *GormRepository) CreateTeamMember(ctx context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error) {
	if err := r.base.DB(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}
