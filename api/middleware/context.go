package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/internal/team"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxIsAdmin contextKey = "is_admin"
)

// UserIDFromContext returns the authenticated user, uuid.Nil when anonymous.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// ActorFromContext bundles the authenticated identity for vendor-scoped services.
func ActorFromContext(ctx context.Context) team.Actor {
	return team.Actor{
		UserID:  UserIDFromContext(ctx),
		IsAdmin: IsAdminFromContext(ctx),
	}
}

// WithIdentity injects the authenticated identity into the context.
func WithIdentity(ctx context.Context, userID uuid.UUID, isAdmin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
