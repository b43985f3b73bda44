package controllers

import (
	"net/http"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/vendors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type vendorProfileUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	StoryMission *string `json:"story_mission" validate:"omitempty,max=2000"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	ZipCode      *string `json:"zip_code" validate:"omitempty,max=20"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	ServiceArea  *string `json:"service_area" validate:"omitempty,max=300"`
	ShipsGoods   *bool   `json:"ships_goods"`
}

// VendorProfileUpdate lets the vendor owner edit the storefront profile.
func VendorProfileUpdate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vendorProfileUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.UpdateProfile(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			vendors.UpdateProfileInput{
				Name:         req.Name,
				Description:  req.Description,
				StoryMission: req.StoryMission,
				Email:        req.Email,
				Phone:        req.Phone,
				Address:      req.Address,
				City:         req.City,
				State:        req.State,
				ZipCode:      req.ZipCode,
				Country:      req.Country,
				ServiceArea:  req.ServiceArea,
				ShipsGoods:   req.ShipsGoods,
			})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}
