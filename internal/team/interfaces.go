package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the team service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindMembership(ctx context.Context, userID, vendorID uuid.UUID) (*models.VendorTeamMember, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.VendorTeamMember, error)
	ListVendorIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListAllVendorIDs(ctx context.Context) ([]uuid.UUID, error)
	Create(ctx context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error)
	Delete(ctx context.Context, userID, vendorID uuid.UUID) error
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	VendorExists(ctx context.Context, vendorID uuid.UUID) (bool, error)
}
