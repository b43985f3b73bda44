package controllers

import (
	"net/http"
	"strings"

	"github.com/farm2fork/farm2fork-backend/api/middleware"
	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/api/validators"
	"github.com/farm2fork/farm2fork-backend/internal/dashboard"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

// VendorDashboard serves the aggregated vendor report. Window selection via
// ?days=7|30|90 or explicit ?start_date=&end_date= (YYYY-MM-DD).
func VendorDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 0, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := dashboard.Query{
			Days:       days,
			StartDate:  strings.TrimSpace(r.URL.Query().Get("start_date")),
			EndDate:    strings.TrimSpace(r.URL.Query().Get("end_date")),
			BuyerState: strings.TrimSpace(r.URL.Query().Get("buyer_state")),
			BuyerCity:  strings.TrimSpace(r.URL.Query().Get("buyer_city")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category"))
				return
			}
			query.Category = &category
		}

		report, err := svc.Report(r.Context(),
			middleware.ActorFromContext(r.Context()),
			middleware.VendorIDFromContext(r.Context()),
			query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
