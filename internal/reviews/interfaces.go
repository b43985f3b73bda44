package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the review service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, reviewID uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	CreateResponse(ctx context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error)
	UpdateResponse(ctx context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error)
	VendorActive(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

type vendorAuthorizer interface {
	Authorize(ctx context.Context, actor team.Actor, vendorID uuid.UUID, requireOwner bool) error
}
