package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	"github.com/farm2fork/farm2fork-backend/pkg/types"
)

// SearchFilters narrows the vendor listing. All fields are optional.
type SearchFilters struct {
	Query    string
	Location string
	Category *enums.ProductCategory
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// VendorSummary is one row of the vendor listing. The warning flags tell the
// storefront that a vendor matched the price filter while also carrying
// products outside the requested range.
type VendorSummary struct {
	Vendor              models.Vendor
	AverageRating       float64
	ReviewCount         int
	PriceRange          types.PriceRange
	HasProductsBelowMin bool
	HasProductsAboveMax bool
}

// VendorDetail is the full storefront view of one vendor. Review responses
// are included only when the vendor marked them public.
type VendorDetail struct {
	Vendor        models.Vendor
	AverageRating float64
	ReviewCount   int
	PriceRange    types.PriceRange
}
