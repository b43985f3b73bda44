package orders

import "github.com/google/uuid"

// CheckoutInput converts a cart into an order. Shipping fields describe the
// destination; the buyer fields capture where the buyer is located for
// regional reporting and may differ from the shipping address.
type CheckoutInput struct {
	VendorID uuid.UUID
	Notes    string

	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipCode string
	ShippingCountry string

	BuyerCity    string
	BuyerState   string
	BuyerZipCode string
}
