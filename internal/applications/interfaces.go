package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// Repository defines the persistence surface required by the application
// service. Approval creates the vendor and owner membership through the same
// repository so the whole sequence shares one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, application *models.VendorApplication) (*models.VendorApplication, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error)
	FindByIDLocked(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error)
	List(ctx context.Context, status *enums.ApplicationStatus) ([]models.VendorApplication, error)
	Update(ctx context.Context, application *models.VendorApplication) (*models.VendorApplication, error)
	VendorNameTaken(ctx context.Context, name string) (bool, error)
	PendingNameTaken(ctx context.Context, name string) (bool, error)
	CreateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	CreateTeamMember(ctx context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
