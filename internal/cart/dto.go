package cart

import (
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// View is a cart with its live-priced totals. Carts never store prices; the
// totals are derived from the current product catalog at read time.
type View struct {
	Cart       models.Cart
	TotalPrice decimal.Decimal
	ItemCount  int
}

// BuildView computes the derived totals for a loaded cart. Lines whose
// product has disappeared contribute nothing.
func BuildView(cart models.Cart) View {
	total := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return View{Cart: cart, TotalPrice: total, ItemCount: count}
}
