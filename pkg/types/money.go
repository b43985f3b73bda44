package types

import "github.com/shopspring/decimal"

// PriceRange is the min/max available-product price for a vendor. Nil bounds
// mean the vendor has no products.
type PriceRange struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// MoneyString renders a decimal with exactly two fraction digits.
func MoneyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}
