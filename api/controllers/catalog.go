package controllers

import (
	"net/http"
	"strings"

	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/catalog"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/types"
)

type vendorSummaryResponse struct {
	Vendor              models.Vendor    `json:"vendor"`
	AverageRating       float64          `json:"average_rating"`
	ReviewCount         int              `json:"review_count"`
	PriceRange          types.PriceRange `json:"price_range"`
	HasProductsBelowMin bool             `json:"has_products_below_min"`
	HasProductsAboveMax bool             `json:"has_products_above_max"`
}

type vendorDetailResponse struct {
	Vendor        models.Vendor    `json:"vendor"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
	PriceRange    types.PriceRange `json:"price_range"`
}

// VendorSearch serves the public vendor listing with search, location,
// category, and price-range filters.
func VendorSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := catalog.SearchFilters{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category"))
				return
			}
			filters.Category = &category
		}

		minPrice, err := validators.ParseQueryDecimal(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.MinPrice = minPrice
		filters.MaxPrice = maxPrice

		results, err := svc.SearchVendors(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]vendorSummaryResponse, 0, len(results))
		for _, row := range results {
			payload = append(payload, vendorSummaryResponse{
				Vendor:              row.Vendor,
				AverageRating:       row.AverageRating,
				ReviewCount:         row.ReviewCount,
				PriceRange:          row.PriceRange,
				HasProductsBelowMin: row.HasProductsBelowMin,
				HasProductsAboveMax: row.HasProductsAboveMax,
			})
		}
		responses.WriteSuccess(w, payload)
	}
}

// VendorDetail serves the public storefront view of one vendor.
func VendorDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.UUIDParam(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendorDetailResponse{
			Vendor:        detail.Vendor,
			AverageRating: detail.AverageRating,
			ReviewCount:   detail.ReviewCount,
			PriceRange:    detail.PriceRange,
		})
	}
}
