package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the mutable staging area for one (user, vendor) pair. Pricing is
// always derived from the live products, never stored.
type Cart struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_carts_user_vendor"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:uq_carts_user_vendor"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one product line inside a cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uq_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_cart_items_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null"`

	Product *Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
