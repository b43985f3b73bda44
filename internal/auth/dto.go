package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is the credential set handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is a token pair plus the authenticated profile.
type LoginResult struct {
	TokenPair
	User UserProfile `json:"user"`
}

// UserProfile is the public shape of an account.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileFromModel strips credentials from the stored user.
func ProfileFromModel(user *models.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
