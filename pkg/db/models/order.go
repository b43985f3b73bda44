package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// Order is an immutable snapshot produced at checkout. Its totals and item
// details never change after creation; only status and completion timestamp do.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID   uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null;index"`
	CartID     *uuid.UUID        `gorm:"column:cart_id;type:uuid"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(10,2);not null"`
	Notes      string            `gorm:"column:notes;not null;default:''"`

	ShippingAddress string `gorm:"column:shipping_address;not null;default:''"`
	ShippingCity    string `gorm:"column:shipping_city;not null;default:''"`
	ShippingState   string `gorm:"column:shipping_state;not null;default:''"`
	ShippingZipCode string `gorm:"column:shipping_zip_code;not null;default:''"`
	ShippingCountry string `gorm:"column:shipping_country;not null;default:''"`

	// Buyer location is captured separately from the shipping destination so
	// regional reporting stays stable when orders ship elsewhere.
	BuyerCity    string `gorm:"column:buyer_city;not null;default:''"`
	BuyerState   string `gorm:"column:buyer_state;not null;default:''"`
	BuyerZipCode string `gorm:"column:buyer_zip_code;not null;default:''"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one product line at checkout time.
type OrderItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	ProductName     string                `gorm:"column:product_name;not null"`
	ProductCategory enums.ProductCategory `gorm:"column:product_category;type:text;not null"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Subtotal        decimal.Decimal       `gorm:"column:subtotal;type:numeric(10,2);not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
