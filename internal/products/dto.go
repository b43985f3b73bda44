package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// CreateInput carries the fields for a new product listing.
type CreateInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Category       enums.ProductCategory
	IsFeatured     bool
	MaxQuantity    int
	TrackInventory bool
	StockQuantity  *int
	IsAvailable    *bool
}

// UpdateInput patches an existing product. Nil fields are left untouched.
type UpdateInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Category       *enums.ProductCategory
	IsFeatured     *bool
	MaxQuantity    *int
	TrackInventory *bool
	StockQuantity  *int
	IsAvailable    *bool
}

// BulkOperation names one of the supported bulk actions.
type BulkOperation string

const (
	BulkAdjustPrice     BulkOperation = "adjust_price"
	BulkSetCategory     BulkOperation = "set_category"
	BulkSetAvailability BulkOperation = "set_availability"
	BulkDelete          BulkOperation = "delete"
)

// BulkInput applies one operation to a set of the vendor's products. The
// whole set is applied inside a single transaction; any failure rolls the
// entire batch back.
type BulkInput struct {
	ProductIDs []uuid.UUID
	Operation  BulkOperation

	// PricePercent is a signed percentage for adjust_price, e.g. 10 raises
	// prices by 10%, -25 cuts them by a quarter.
	PricePercent *decimal.Decimal
	Category     *enums.ProductCategory
	IsAvailable  *bool
}

// BulkResult reports how many products the batch touched.
type BulkResult struct {
	Affected int
}
