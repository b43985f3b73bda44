package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// The aggregation engine reads three row sets and never writes. Each reader
// is a narrow interface so the engine can be tested against in-memory fakes.

type orderReader interface {
	ListOrdersInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time, filters Filters) ([]models.Order, error)
}

type reviewReader interface {
	ListReviewsInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time) ([]models.Review, error)
}

type cartReader interface {
	// ListCartItemsInWindow returns the items of carts last touched inside the
	// window, with live products attached for current-price valuation.
	ListCartItemsInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time) ([]models.CartItem, error)
}

// Repository bundles the three readers the way the gorm implementation
// provides them.
type Repository interface {
	orderReader
	reviewReader
	cartReader
}

type vendorResolver interface {
	Authorize(ctx context.Context, actor team.Actor, vendorID uuid.UUID, requireOwner bool) error
	AccessibleVendorIDs(ctx context.Context, actor team.Actor) ([]uuid.UUID, error)
}
