package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// Query selects the reporting window and optional order filters. The window
// comes from a day preset or an explicit date pair; when both are given the
// explicit dates win, and dates that fail to parse fall back to the preset.
type Query struct {
	Days      int
	StartDate string
	EndDate   string

	BuyerState string
	BuyerCity  string
	Category   *enums.ProductCategory
}

// Window is the resolved inclusive reporting interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Filters narrow the order set feeding the report.
type Filters struct {
	BuyerState string
	BuyerCity  string
}

// Report is the full dashboard payload for one vendor.
type Report struct {
	VendorID uuid.UUID `json:"vendor_id"`
	Window   Window    `json:"window"`

	TotalOrders      int             `json:"total_orders"`
	CompletedOrders  int             `json:"completed_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`

	ReviewCount   int         `json:"review_count"`
	AverageRating float64     `json:"average_rating"`
	ResponseRate  float64     `json:"response_rate"`
	RatingCounts  map[int]int `json:"rating_counts"`

	OrdersByDay      []OrderDayPoint     `json:"orders_by_day"`
	ReviewsByDay     []ReviewDayPoint    `json:"reviews_by_day"`
	OrdersByCategory []CategoryBreakdown `json:"orders_by_category"`
	OrdersByState    []StateBreakdown    `json:"orders_by_state"`
}

// OrderDayPoint is one calendar day of order activity. Revenue counts only
// completed orders; the conversion to float64 here is display-only.
type OrderDayPoint struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ReviewDayPoint is one calendar day of review activity.
type ReviewDayPoint struct {
	Date          string  `json:"date"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// CategoryBreakdown aggregates order item snapshots per product category.
type CategoryBreakdown struct {
	Category enums.ProductCategory `json:"category"`
	Count    int                   `json:"count"`
	Revenue  float64               `json:"revenue"`
}

// StateBreakdown aggregates orders per buyer state.
type StateBreakdown struct {
	State   string  `json:"state"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}
