package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/pagination"
)

// Repository defines the persistence surface required by the order service.
// Checkout reaches into the cart tables as well: the snapshot and the cart
// deletion must commit together.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCartLocked(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIDLocked(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type vendorAuthorizer interface {
	Authorize(ctx context.Context, actor team.Actor, vendorID uuid.UUID, requireOwner bool) error
}
