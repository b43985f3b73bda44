package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/products"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type productCreateRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description" validate:"max=2000"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	Category       string          `json:"category"`
	IsFeatured     bool            `json:"is_featured"`
	MaxQuantity    int             `json:"max_quantity"`
	TrackInventory bool            `json:"track_inventory"`
	StockQuantity  *int            `json:"stock_quantity"`
	IsAvailable    *bool           `json:"is_available"`
}

type productUpdateRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Category       *string          `json:"category"`
	IsFeatured     *bool            `json:"is_featured"`
	MaxQuantity    *int             `json:"max_quantity"`
	TrackInventory *bool            `json:"track_inventory"`
	StockQuantity  *int             `json:"stock_quantity"`
	IsAvailable    *bool            `json:"is_available"`
}

type productBulkRequest struct {
	ProductIDs   []uuid.UUID      `json:"product_ids" validate:"required,min=1"`
	Operation    string           `json:"operation" validate:"required,oneof=adjust_price set_category set_availability delete"`
	PricePercent *decimal.Decimal `json:"price_percent"`
	Category     *string          `json:"category"`
	IsAvailable  *bool            `json:"is_available"`
}

func VendorProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func VendorCreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.CreateInput{
			Name:           req.Name,
			Description:    req.Description,
			Price:          req.Price,
			IsFeatured:     req.IsFeatured,
			MaxQuantity:    req.MaxQuantity,
			TrackInventory: req.TrackInventory,
			StockQuantity:  req.StockQuantity,
			IsAvailable:    req.IsAvailable,
		}
		if raw := strings.TrimSpace(req.Category); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category"))
				return
			}
			input.Category = category
		}

		product, err := svc.Create(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func VendorUpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateInput{
			Name:           req.Name,
			Description:    req.Description,
			Price:          req.Price,
			IsFeatured:     req.IsFeatured,
			MaxQuantity:    req.MaxQuantity,
			TrackInventory: req.TrackInventory,
			StockQuantity:  req.StockQuantity,
			IsAvailable:    req.IsAvailable,
		}
		if req.Category != nil {
			category, err := enums.ParseProductCategory(strings.TrimSpace(*req.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category"))
				return
			}
			input.Category = &category
		}

		product, err := svc.Update(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func VendorDeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// VendorBulkProducts applies one operation to a set of products atomically.
func VendorBulkProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productBulkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.BulkInput{
			ProductIDs:   req.ProductIDs,
			Operation:    products.BulkOperation(req.Operation),
			PricePercent: req.PricePercent,
			IsAvailable:  req.IsAvailable,
		}
		if req.Category != nil {
			category, err := enums.ParseProductCategory(strings.TrimSpace(*req.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category"))
				return
			}
			input.Category = &category
		}

		result, err := svc.BulkUpdate(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"affected": result.Affected})
	}
}
