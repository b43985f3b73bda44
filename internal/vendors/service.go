package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

// Service manages the vendor's own profile. Creation happens through
// application approval; this only covers edits afterwards.
type Service interface {
	UpdateProfile(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input UpdateProfileInput) (*models.Vendor, error)
}

type service struct {
	repo Repository
	team vendorAuthorizer
}

// NewService builds a vendor profile service backed by the provided stack.
func NewService(repo Repository, team vendorAuthorizer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if team == nil {
		return nil, fmt.Errorf("team authorizer required")
	}
	return &service{repo: repo, team: team}, nil
}

// UpdateProfile applies a partial edit to the vendor's public profile.
// Owner-only: plain team members can manage products and orders but not the
// storefront identity.
func (s *service) UpdateProfile(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input UpdateProfileInput) (*models.Vendor, error) {
	if err := s.team.Authorize(ctx, actor, vendorID, true); err != nil {
		return nil, err
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name cannot be empty")
		}
		vendor.Name = name
	}
	if input.Description != nil {
		vendor.Description = strings.TrimSpace(*input.Description)
	}
	if input.StoryMission != nil {
		vendor.StoryMission = strings.TrimSpace(*input.StoryMission)
	}
	if input.Email != nil {
		vendor.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		vendor.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		vendor.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		vendor.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		vendor.State = strings.TrimSpace(*input.State)
	}
	if input.ZipCode != nil {
		vendor.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Country != nil {
		vendor.Country = strings.TrimSpace(*input.Country)
	}
	if input.ServiceArea != nil {
		vendor.ServiceArea = strings.TrimSpace(*input.ServiceArea)
	}
	if input.ShipsGoods != nil {
		vendor.ShipsGoods = *input.ShipsGoods
	}

	updated, err := s.repo.Update(ctx, vendor)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_vendors_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor name is already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return updated, nil
}
