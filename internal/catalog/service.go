package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/types"
)

// Service exposes the public vendor catalog.
type Service interface {
	SearchVendors(ctx context.Context, filters SearchFilters) ([]VendorSummary, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*VendorDetail, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// SearchVendors filters the active vendor list. All filters are optional and
// combine with AND; result order follows vendor insertion order.
func (s *service) SearchVendors(ctx context.Context, filters SearchFilters) ([]VendorSummary, error) {
	if filters.MinPrice != nil && filters.MinPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price cannot be negative")
	}
	if filters.MaxPrice != nil && filters.MaxPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max price cannot be negative")
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}

	vendors, err := s.repo.ListActiveVendors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}

	results := make([]VendorSummary, 0, len(vendors))
	for _, vendor := range vendors {
		if !matchesQuery(vendor, filters.Query) {
			continue
		}
		if !matchesLocation(vendor, filters.Location) {
			continue
		}
		if filters.Category != nil && !hasCategory(vendor, *filters.Category) {
			continue
		}

		inRange, belowMin, aboveMax := priceProfile(vendor, filters)
		if (filters.MinPrice != nil || filters.MaxPrice != nil) && !inRange {
			continue
		}

		results = append(results, VendorSummary{
			Vendor:              vendor,
			AverageRating:       averageRating(vendor.Reviews),
			ReviewCount:         len(vendor.Reviews),
			PriceRange:          priceRange(vendor.Products),
			HasProductsBelowMin: belowMin,
			HasProductsAboveMax: aboveMax,
		})
	}
	return results, nil
}

// GetVendor returns the storefront detail for one active vendor. Non-public
// review responses are stripped before the vendor leaves the service.
func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*VendorDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	for i := range vendor.Reviews {
		if resp := vendor.Reviews[i].Response; resp != nil && !resp.IsPublic {
			vendor.Reviews[i].Response = nil
		}
	}

	return &VendorDetail{
		Vendor:        *vendor,
		AverageRating: averageRating(vendor.Reviews),
		ReviewCount:   len(vendor.Reviews),
		PriceRange:    priceRange(vendor.Products),
	}, nil
}

func matchesQuery(vendor models.Vendor, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(vendor.Name), query) ||
		strings.Contains(strings.ToLower(vendor.Description), query)
}

func matchesLocation(vendor models.Vendor, location string) bool {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(vendor.City), location) ||
		strings.Contains(strings.ToLower(vendor.State), location) ||
		strings.Contains(strings.ToLower(vendor.ServiceArea), location)
}

func hasCategory(vendor models.Vendor, category enums.ProductCategory) bool {
	for _, p := range vendor.Products {
		if p.Category == category {
			return true
		}
	}
	return false
}

// priceProfile reports whether the vendor has an available product inside the
// requested range (bounds inclusive), plus whether it also stocks available
// products outside either bound.
func priceProfile(vendor models.Vendor, filters SearchFilters) (inRange, belowMin, aboveMax bool) {
	if filters.MinPrice == nil && filters.MaxPrice == nil {
		return true, false, false
	}
	for _, p := range vendor.Products {
		if !p.IsAvailable {
			continue
		}
		below := filters.MinPrice != nil && p.Price.LessThan(*filters.MinPrice)
		above := filters.MaxPrice != nil && p.Price.GreaterThan(*filters.MaxPrice)
		switch {
		case below:
			belowMin = true
		case above:
			aboveMax = true
		default:
			inRange = true
		}
	}
	return inRange, belowMin, aboveMax
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

func priceRange(products []models.Product) types.PriceRange {
	var pr types.PriceRange
	for _, p := range products {
		if !p.IsAvailable {
			continue
		}
		price := p.Price
		if pr.Min == nil || price.LessThan(*pr.Min) {
			v := price
			pr.Min = &v
		}
		if pr.Max == nil || price.GreaterThan(*pr.Max) {
			v := price
			pr.Max = &v
		}
	}
	return pr
}
