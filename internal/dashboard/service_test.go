package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

type fakeRepo struct {
	orders    []models.Order
	reviews   []models.Review
	cartItems []models.CartItem

	gotFilters Filters
	gotStart   time.Time
	gotEnd     time.Time
}

func (f *fakeRepo) ListOrdersInWindow(_ context.Context, _ uuid.UUID, start, end time.Time, filters Filters) ([]models.Order, error) {
	f.gotFilters = filters
	f.gotStart = start
	f.gotEnd = end
	return f.orders, nil
}

func (f *fakeRepo) ListReviewsInWindow(context.Context, uuid.UUID, time.Time, time.Time) ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeRepo) ListCartItemsInWindow(context.Context, uuid.UUID, time.Time, time.Time) ([]models.CartItem, error) {
	return f.cartItems, nil
}

type fakeResolver struct {
	accessible []uuid.UUID
	denied     bool
}

func (f *fakeResolver) Authorize(_ context.Context, _ team.Actor, _ uuid.UUID, _ bool) error {
	if f.denied {
		return pkgerrors.New(pkgerrors.CodeForbidden, "no access to this vendor")
	}
	return nil
}

func (f *fakeResolver) AccessibleVendorIDs(context.Context, team.Actor) ([]uuid.UUID, error) {
	return f.accessible, nil
}

func newDashboardService(t *testing.T, repo Repository, resolver vendorResolver, now time.Time) *service {
	t.Helper()
	svc, err := NewService(repo, resolver)
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return now }
	return s
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc := newDashboardService(t, &fakeRepo{}, &fakeResolver{}, now)

	t.Run("default and presets", func(t *testing.T) {
		window := svc.resolveWindow(Query{})
		require.Equal(t, now.AddDate(0, 0, -30), window.Start)
		require.Equal(t, now, window.End)

		window = svc.resolveWindow(Query{Days: 7})
		require.Equal(t, now.AddDate(0, 0, -7), window.Start)

		window = svc.resolveWindow(Query{Days: 13})
		require.Equal(t, now.AddDate(0, 0, -30), window.Start, "unknown preset falls back")
	})

	t.Run("explicit dates win", func(t *testing.T) {
		window := svc.resolveWindow(Query{Days: 7, StartDate: "2026-01-01", EndDate: "2026-01-31"})
		require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), window.Start)
		require.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC).Add(24*time.Hour-time.Nanosecond), window.End)
	})

	t.Run("unparseable dates fall back to default", func(t *testing.T) {
		window := svc.resolveWindow(Query{StartDate: "yesterday", EndDate: "2026-01-31"})
		require.Equal(t, now.AddDate(0, 0, -30), window.Start)

		window = svc.resolveWindow(Query{StartDate: "2026-02-01", EndDate: "2026-01-01"})
		require.Equal(t, now.AddDate(0, 0, -30), window.Start, "inverted range falls back")
	})
}

func TestReport(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	vendorID := uuid.New()
	actor := team.Actor{UserID: uuid.New()}
	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{
			Status:     enums.OrderStatusCompleted,
			TotalPrice: money("40.00"),
			BuyerState: "NC",
			CreatedAt:  day1,
			Items: []models.OrderItem{
				{ProductCategory: enums.ProductCategoryVegetables, Subtotal: money("25.00")},
				{ProductCategory: enums.ProductCategoryDairy, Subtotal: money("15.00")},
			},
		},
		{
			Status:     enums.OrderStatusDelivered,
			TotalPrice: money("10.00"),
			BuyerState: "NC",
			CreatedAt:  day2,
			Items: []models.OrderItem{
				{ProductCategory: enums.ProductCategoryVegetables, Subtotal: money("10.00")},
			},
		},
		{
			Status:     enums.OrderStatusPending,
			TotalPrice: money("99.00"),
			CreatedAt:  day2,
			Items: []models.OrderItem{
				{ProductCategory: enums.ProductCategoryVegetables, Subtotal: money("99.00")},
			},
		},
	}

	reviews := []models.Review{
		{Rating: 5, CreatedAt: day1, Response: &models.ReviewResponse{}},
		{Rating: 3, CreatedAt: day1},
		{Rating: 4, CreatedAt: day2},
		{Rating: 4, CreatedAt: day2},
	}

	cartItems := []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: money("6.25")}},
		{Quantity: 1, Product: &models.Product{Price: money("3.00")}},
		{Quantity: 3, Product: nil},
	}

	t.Run("full aggregation", func(t *testing.T) {
		repo := &fakeRepo{orders: orders, reviews: reviews, cartItems: cartItems}
		svc := newDashboardService(t, repo, &fakeResolver{}, now)

		report, err := svc.Report(context.Background(), actor, vendorID, Query{})
		require.NoError(t, err)

		require.Equal(t, 3, report.TotalOrders)
		require.Equal(t, 2, report.CompletedOrders)
		require.True(t, money("50.00").Equal(report.TotalRevenue), report.TotalRevenue.String())
		require.True(t, money("15.50").Equal(report.PotentialRevenue), report.PotentialRevenue.String())

		require.Equal(t, 4, report.ReviewCount)
		require.InDelta(t, 4.0, report.AverageRating, 0.001)
		require.InDelta(t, 25.0, report.ResponseRate, 0.001)
		require.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 2, 5: 1}, report.RatingCounts)

		require.Equal(t, []OrderDayPoint{
			{Date: "2026-08-10", Count: 1, Revenue: 40},
			{Date: "2026-08-11", Count: 2, Revenue: 10},
		}, report.OrdersByDay)

		require.Equal(t, []ReviewDayPoint{
			{Date: "2026-08-10", Count: 2, AverageRating: 4},
			{Date: "2026-08-11", Count: 2, AverageRating: 4},
		}, report.ReviewsByDay)

		require.Len(t, report.OrdersByCategory, 2)
		require.Equal(t, enums.ProductCategoryVegetables, report.OrdersByCategory[0].Category)
		require.Equal(t, 3, report.OrdersByCategory[0].Count)
		require.InDelta(t, 35.0, report.OrdersByCategory[0].Revenue, 0.001)

		require.Equal(t, []StateBreakdown{{State: "NC", Count: 2, Revenue: 50}}, report.OrdersByState)
	})

	t.Run("category filter keeps matching orders only", func(t *testing.T) {
		repo := &fakeRepo{orders: orders}
		svc := newDashboardService(t, repo, &fakeResolver{}, now)
		dairy := enums.ProductCategoryDairy

		report, err := svc.Report(context.Background(), actor, vendorID, Query{Category: &dairy})
		require.NoError(t, err)
		require.Equal(t, 1, report.TotalOrders)
		require.True(t, money("40.00").Equal(report.TotalRevenue))
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		svc := newDashboardService(t, &fakeRepo{}, &fakeResolver{}, now)
		bad := enums.ProductCategory("weird")
		_, err := svc.Report(context.Background(), actor, vendorID, Query{Category: &bad})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("location filters reach the repository", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newDashboardService(t, repo, &fakeResolver{}, now)

		_, err := svc.Report(context.Background(), actor, vendorID, Query{BuyerState: "NC", BuyerCity: "Asheville"})
		require.NoError(t, err)
		require.Equal(t, Filters{BuyerState: "NC", BuyerCity: "Asheville"}, repo.gotFilters)
	})

	t.Run("empty window is all zeros", func(t *testing.T) {
		svc := newDashboardService(t, &fakeRepo{}, &fakeResolver{}, now)

		report, err := svc.Report(context.Background(), actor, vendorID, Query{})
		require.NoError(t, err)
		require.Zero(t, report.TotalOrders)
		require.True(t, report.TotalRevenue.IsZero())
		require.True(t, report.PotentialRevenue.IsZero())
		require.Zero(t, report.AverageRating)
		require.Zero(t, report.ResponseRate)
		require.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, report.RatingCounts)
		require.Empty(t, report.OrdersByDay)
	})
}

func TestReportVendorResolution(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	actor := team.Actor{UserID: uuid.New()}

	t.Run("falls back to first accessible vendor", func(t *testing.T) {
		first := uuid.New()
		resolver := &fakeResolver{accessible: []uuid.UUID{first, uuid.New()}}
		svc := newDashboardService(t, &fakeRepo{}, resolver, now)

		report, err := svc.Report(context.Background(), actor, uuid.Nil, Query{})
		require.NoError(t, err)
		require.Equal(t, first, report.VendorID)
	})

	t.Run("no accessible vendors", func(t *testing.T) {
		svc := newDashboardService(t, &fakeRepo{}, &fakeResolver{}, now)
		_, err := svc.Report(context.Background(), actor, uuid.Nil, Query{})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})

	t.Run("membership gate applies", func(t *testing.T) {
		svc := newDashboardService(t, &fakeRepo{}, &fakeResolver{denied: true}, now)
		_, err := svc.Report(context.Background(), actor, uuid.New(), Query{})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	})
}
