package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/api/responses"
	"github.com/farm2fork/farm2fork-backend/internal/team"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

const ctxVendorID contextKey = "vendor_id"

type vendorGate interface {
	Authorize(ctx context.Context, actor team.Actor, vendorID uuid.UUID, requireOwner bool) error
}

// VendorIDFromContext returns the vendor the request is scoped to.
func VendorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxVendorID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// VendorAccess parses the {vendorId} route parameter and rejects callers
// without a membership on that vendor. Owner-only routes tighten the check
// again in the service layer.
func VendorAccess(gate vendorGate, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vendorID, err := uuid.Parse(chi.URLParam(r, "vendorId"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid vendor id"))
				return
			}

			actor := ActorFromContext(r.Context())
			if err := gate.Authorize(r.Context(), actor, vendorID, false); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxVendorID, vendorID)
			if logg != nil {
				ctx = logg.WithVendorID(ctx, vendorID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
