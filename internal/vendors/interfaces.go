package vendors

import (
	"context"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the vendor service.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
}

type vendorAuthorizer interface {
	Authorize(ctx context.Context, actor team.Actor, vendorID uuid.UUID, requireOwner bool) error
}
