package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/internal/reviews"
	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

const (
	defaultWindowDays = 30
	dateLayout        = "2006-01-02"
)

var windowPresets = map[int]bool{7: true, 30: true, 90: true}

// Service produces the vendor dashboard report: order, revenue, review, and
// cart aggregates over a date window.
type Service interface {
	Report(ctx context.Context, actor team.Actor, vendorID uuid.UUID, query Query) (*Report, error)
}

type service struct {
	repo Repository
	team vendorResolver
	now  func() time.Time
}

// NewService builds the aggregation engine over the given readers.
func NewService(repo Repository, team vendorResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if team == nil {
		return nil, fmt.Errorf("team resolver required")
	}
	return &service{repo: repo, team: team, now: time.Now}, nil
}

// Report aggregates the vendor's activity inside the resolved window. Passing
// uuid.Nil as vendorID picks the caller's first accessible vendor.
func (s *service) Report(ctx context.Context, actor team.Actor, vendorID uuid.UUID, query Query) (*Report, error) {
	if query.Category != nil && !query.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}

	vendorID, err := s.resolveVendor(ctx, actor, vendorID)
	if err != nil {
		return nil, err
	}
	window := s.resolveWindow(query)

	orders, err := s.repo.ListOrdersInWindow(ctx, vendorID, window.Start, window.End, Filters{
		BuyerState: query.BuyerState,
		BuyerCity:  query.BuyerCity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	if query.Category != nil {
		orders = filterByCategory(orders, *query.Category)
	}

	reviewRows, err := s.repo.ListReviewsInWindow(ctx, vendorID, window.Start, window.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviews")
	}

	cartItems, err := s.repo.ListCartItemsInWindow(ctx, vendorID, window.Start, window.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load carts")
	}

	report := &Report{
		VendorID:         vendorID,
		Window:           window,
		TotalRevenue:     decimal.Zero,
		PotentialRevenue: potentialRevenue(cartItems),
		ResponseRate:     reviews.ResponseRate(reviewRows),
	}
	aggregateOrders(report, orders)
	aggregateReviews(report, reviewRows)
	return report, nil
}

func (s *service) resolveVendor(ctx context.Context, actor team.Actor, vendorID uuid.UUID) (uuid.UUID, error) {
	if vendorID != uuid.Nil {
		if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
			return uuid.Nil, err
		}
		return vendorID, nil
	}

	accessible, err := s.team.AccessibleVendorIDs(ctx, actor)
	if err != nil {
		return uuid.Nil, err
	}
	if len(accessible) == 0 {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "no accessible vendors")
	}
	return accessible[0], nil
}

// resolveWindow picks an inclusive interval: an explicit date pair when both
// parse, otherwise a day preset, otherwise the 30-day default.
func (s *service) resolveWindow(query Query) Window {
	if query.StartDate != "" || query.EndDate != "" {
		start, startErr := time.Parse(dateLayout, query.StartDate)
		end, endErr := time.Parse(dateLayout, query.EndDate)
		if startErr == nil && endErr == nil && !end.Before(start) {
			return Window{
				Start: start,
				End:   end.Add(24*time.Hour - time.Nanosecond),
			}
		}
	}

	days := query.Days
	if !windowPresets[days] {
		days = defaultWindowDays
	}
	end := s.now().UTC()
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

func filterByCategory(orders []models.Order, category enums.ProductCategory) []models.Order {
	filtered := orders[:0]
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductCategory == category {
				filtered = append(filtered, order)
				break
			}
		}
	}
	return filtered
}

func aggregateOrders(report *Report, orders []models.Order) {
	type dayAgg struct {
		count   int
		revenue decimal.Decimal
	}
	type catAgg struct {
		count   int
		revenue decimal.Decimal
	}

	days := map[string]*dayAgg{}
	categories := map[enums.ProductCategory]*catAgg{}
	states := map[string]*catAgg{}

	for _, order := range orders {
		report.TotalOrders++
		completed := order.Status.CountsAsCompleted()
		if completed {
			report.CompletedOrders++
			report.TotalRevenue = report.TotalRevenue.Add(order.TotalPrice)
		}

		day := order.CreatedAt.Format(dateLayout)
		if days[day] == nil {
			days[day] = &dayAgg{revenue: decimal.Zero}
		}
		days[day].count++
		if completed {
			days[day].revenue = days[day].revenue.Add(order.TotalPrice)
		}

		for _, item := range order.Items {
			if categories[item.ProductCategory] == nil {
				categories[item.ProductCategory] = &catAgg{revenue: decimal.Zero}
			}
			categories[item.ProductCategory].count++
			if completed {
				categories[item.ProductCategory].revenue =
					categories[item.ProductCategory].revenue.Add(item.Subtotal)
			}
		}

		if order.BuyerState != "" {
			if states[order.BuyerState] == nil {
				states[order.BuyerState] = &catAgg{revenue: decimal.Zero}
			}
			states[order.BuyerState].count++
			if completed {
				states[order.BuyerState].revenue =
					states[order.BuyerState].revenue.Add(order.TotalPrice)
			}
		}
	}

	report.OrdersByDay = make([]OrderDayPoint, 0, len(days))
	for day, agg := range days {
		report.OrdersByDay = append(report.OrdersByDay, OrderDayPoint{
			Date:    day,
			Count:   agg.count,
			Revenue: agg.revenue.InexactFloat64(),
		})
	}
	sort.Slice(report.OrdersByDay, func(i, j int) bool {
		return report.OrdersByDay[i].Date < report.OrdersByDay[j].Date
	})

	report.OrdersByCategory = make([]CategoryBreakdown, 0, len(categories))
	for category, agg := range categories {
		report.OrdersByCategory = append(report.OrdersByCategory, CategoryBreakdown{
			Category: category,
			Count:    agg.count,
			Revenue:  agg.revenue.InexactFloat64(),
		})
	}
	sort.Slice(report.OrdersByCategory, func(i, j int) bool {
		a, b := report.OrdersByCategory[i], report.OrdersByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	report.OrdersByState = make([]StateBreakdown, 0, len(states))
	for state, agg := range states {
		report.OrdersByState = append(report.OrdersByState, StateBreakdown{
			State:   state,
			Count:   agg.count,
			Revenue: agg.revenue.InexactFloat64(),
		})
	}
	sort.Slice(report.OrdersByState, func(i, j int) bool {
		a, b := report.OrdersByState[i], report.OrdersByState[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.State < b.State
	})
}

func aggregateReviews(report *Report, rows []models.Review) {
	report.RatingCounts = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	report.ReviewCount = len(rows)
	if len(rows) == 0 {
		report.ReviewsByDay = []ReviewDayPoint{}
		return
	}

	type dayAgg struct {
		count int
		sum   int
	}
	days := map[string]*dayAgg{}
	total := 0
	for _, review := range rows {
		total += review.Rating
		if review.Rating >= 1 && review.Rating <= 5 {
			report.RatingCounts[review.Rating]++
		}

		day := review.CreatedAt.Format(dateLayout)
		if days[day] == nil {
			days[day] = &dayAgg{}
		}
		days[day].count++
		days[day].sum += review.Rating
	}
	report.AverageRating = float64(total) / float64(len(rows))

	report.ReviewsByDay = make([]ReviewDayPoint, 0, len(days))
	for day, agg := range days {
		report.ReviewsByDay = append(report.ReviewsByDay, ReviewDayPoint{
			Date:          day,
			Count:         agg.count,
			AverageRating: float64(agg.sum) / float64(agg.count),
		})
	}
	sort.Slice(report.ReviewsByDay, func(i, j int) bool {
		return report.ReviewsByDay[i].Date < report.ReviewsByDay[j].Date
	})
}

// potentialRevenue values open carts at current product prices. Items whose
// product has been deleted contribute nothing.
func potentialRevenue(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil || item.Quantity < 1 {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
