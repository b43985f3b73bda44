package controllers

import (
	"net/http"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/reviews"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type reviewCreateRequest struct {
	ConsumerName string `json:"consumer_name" validate:"required,max=100"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=2000"`
}

type reviewRespondRequest struct {
	ResponseText string `json:"response_text" validate:"required,max=1000"`
	IsPublic     *bool  `json:"is_public"`
}

// ReviewCreate accepts public consumer feedback; no account required.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.UUIDParam(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req reviewCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.CreateReview(r.Context(), vendorID, req.ConsumerName, req.Rating, req.Comment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// ReviewRespond upserts the vendor's reply to a review.
func ReviewRespond(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := validators.UUIDParam(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req reviewRespondRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isPublic := true
		if req.IsPublic != nil {
			isPublic = *req.IsPublic
		}

		response, err := svc.Respond(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			reviewID, req.ResponseText, isPublic)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, response)
	}
}
