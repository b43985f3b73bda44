package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists carts and cart items.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
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

// FindByUserVendor loads the (user, vendor) cart with items and live products.
func (r *GormRepository) FindByUserVendor(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error) {
	return r.findByUserVendor(r.base.DB(ctx), userID, vendorID)
}

// FindByUserVendorLocked is FindByUserVendor holding a row-level write lock
// for the duration of the enclosing transaction.
func (r *GormRepository) FindByUserVendorLocked(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error) {
	return r.findByUserVendor(r.base.Locked(ctx), userID, vendorID)
}

func (r *GormRepository) findByUserVendor(conn *gorm.DB, userID, vendorID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := conn.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ? AND vendor_id = ?", userID, vendorID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItemForUser loads a cart item together with its cart, restricted to the
// owning user. Items in other users' carts are indistinguishable from missing.
func (r *GormRepository) FindItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	var item models.CartItem
	err := r.base.DB(ctx).
		Preload("Product").
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, nil, err
	}

	var cart models.Cart
	err = r.base.DB(ctx).
		Where("id = ? AND user_id = ?", item.CartID, userID).
		First(&cart).Error
	if err != nil {
		return nil, nil, err
	}
	return &item, &cart, nil
}

// Create inserts a cart row.
func (r *GormRepository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.base.DB(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// CreateItem inserts a cart item.
func (r *GormRepository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.base.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity sets the quantity on one line.
func (r *GormRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.base.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem removes one line.
func (r *GormRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// DeleteCart removes the cart row; items cascade.
func (r *GormRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	conn := r.base.DB(ctx)
	// sqlite test databases created via AutoMigrate do not enforce the FK
	// cascade, so items are removed explicitly first.
	if err := conn.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// TouchCart bumps updated_at so window-based cart aggregation sees activity.
func (r *GormRepository) TouchCart(ctx context.Context, cartID uuid.UUID) error {
	return r.base.DB(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now().UTC()).Error
}
