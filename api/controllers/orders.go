package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/orders"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/pagination"
)

type checkoutRequest struct {
	VendorID uuid.UUID `json:"vendor_id" validate:"required"`
	Notes    string    `json:"notes" validate:"max=500"`

	ShippingAddress string `json:"shipping_address" validate:"required"`
	ShippingCity    string `json:"shipping_city" validate:"required"`
	ShippingState   string `json:"shipping_state" validate:"required"`
	ShippingZipCode string `json:"shipping_zip_code" validate:"required"`
	ShippingCountry string `json:"shipping_country"`

	BuyerCity    string `json:"buyer_city"`
	BuyerState   string `json:"buyer_state"`
	BuyerZipCode string `json:"buyer_zip_code"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()), orders.CheckoutInput{
			VendorID:        req.VendorID,
			Notes:           req.Notes,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingZipCode: req.ShippingZipCode,
			ShippingCountry: req.ShippingCountry,
			BuyerCity:       req.BuyerCity,
			BuyerState:      req.BuyerState,
			BuyerZipCode:    req.BuyerZipCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListUserOrders(r.Context(), middleware.UserIDFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetUserOrder(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelOwnOrder(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// VendorOrderList serves the vendor-side order feed, newest first.
func VendorOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListVendorOrders(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// VendorOrderStatus advances an order through its lifecycle.
func VendorOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
