package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository persists user accounts.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a user repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

// FindByEmail loads the account for a normalized email.
func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.base.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new account.
func (r *GormRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.base.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
