package controllers

import (
	"net/http"
	"strings"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/applications"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type applicationSubmitRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	StoryMission string `json:"story_mission" validate:"max=2000"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=30"`
	Address      string `json:"address" validate:"max=300"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	ZipCode      string `json:"zip_code" validate:"max=20"`
	Country      string `json:"country" validate:"max=100"`
	ServiceArea  string `json:"service_area" validate:"max=300"`
	ShipsGoods   bool   `json:"ships_goods"`
}

type applicationRejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func ApplicationSubmit(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applicationSubmitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context()), applications.SubmitInput{
			BusinessName: req.BusinessName,
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
		responses.WriteSuccessStatus(w, http.StatusCreated, application)
	}
}

func AdminApplicationList(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.ApplicationStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseApplicationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status"))
				return
			}
			status = &parsed
		}

		rows, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func AdminApplicationApprove(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applicationID, err := validators.UUIDParam(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Approve(r.Context(), middleware.UserIDFromContext(r.Context()), applicationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

func AdminApplicationReject(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applicationID, err := validators.UUIDParam(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req applicationRejectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Reject(r.Context(), middleware.UserIDFromContext(r.Context()), applicationID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}
