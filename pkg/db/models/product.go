package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// Product is a vendor listing. Prices are fixed-point with two decimal places.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID       uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name           string                `gorm:"column:name;not null"`
	Description    string                `gorm:"column:description;not null;default:''"`
	Price          decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null;default:'other'"`
	IsFeatured     bool                  `gorm:"column:is_featured;not null;default:false"`
	MaxQuantity    int                   `gorm:"column:max_quantity;not null;default:10"`
	TrackInventory bool                  `gorm:"column:track_inventory;not null;default:false"`
	StockQuantity  *int                  `gorm:"column:stock_quantity"`
	IsAvailable    bool                  `gorm:"column:is_available;not null;default:true"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
