package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserVendor(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error)
	FindByUserVendorLocked(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error)
	FindItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, *models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	TouchCart(ctx context.Context, cartID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type vendorChecker interface {
	VendorExists(ctx context.Context, vendorID uuid.UUID) (bool, error)
}
