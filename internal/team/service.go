package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

// Actor identifies the authenticated caller for access decisions.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Service answers vendor access questions and manages team rosters. Platform
// administrators pass every gate.
type Service interface {
	IsTeamMember(ctx context.Context, actor Actor, vendorID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, actor Actor, vendorID uuid.UUID) (bool, error)
	Authorize(ctx context.Context, actor Actor, vendorID uuid.UUID, requireOwner bool) error
	AccessibleVendorIDs(ctx context.Context, actor Actor) ([]uuid.UUID, error)
	ListMembers(ctx context.Context, actor Actor, vendorID uuid.UUID) ([]models.VendorTeamMember, error)
	AddMember(ctx context.Context, actor Actor, vendorID, userID uuid.UUID) (*models.VendorTeamMember, error)
	RemoveMember(ctx context.Context, actor Actor, vendorID, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a team service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("team repository required")
	}
	return &service{repo: repo}, nil
}

// IsTeamMember reports whether the actor may act for the vendor.
func (s *service) IsTeamMember(ctx context.Context, actor Actor, vendorID uuid.UUID) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	_, err := s.repo.FindMembership(ctx, actor.UserID, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return true, nil
}

// IsOwner reports whether the actor owns the vendor.
func (s *service) IsOwner(ctx context.Context, actor Actor, vendorID uuid.UUID) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	member, err := s.repo.FindMembership(ctx, actor.UserID, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return member.IsOwner, nil
}

// Authorize is the single access decision used at the top of every
// vendor-scoped operation.
func (s *service) Authorize(ctx context.Context, actor Actor, vendorID uuid.UUID, requireOwner bool) error {
	if vendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	var (
		ok  bool
		err error
	)
	if requireOwner {
		ok, err = s.IsOwner(ctx, actor, vendorID)
	} else {
		ok, err = s.IsTeamMember(ctx, actor, vendorID)
	}
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "no access to this vendor")
	}
	return nil
}

// AccessibleVendorIDs returns the vendors the actor can manage. Admins see
// every active vendor.
func (s *service) AccessibleVendorIDs(ctx context.Context, actor Actor) ([]uuid.UUID, error) {
	if actor.IsAdmin {
		ids, err := s.repo.ListAllVendorIDs(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
		}
		return ids, nil
	}
	ids, err := s.repo.ListVendorIDsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}
	return ids, nil
}

// ListMembers returns the vendor roster. Team members may view it.
func (s *service) ListMembers(ctx context.Context, actor Actor, vendorID uuid.UUID) ([]models.VendorTeamMember, error) {
	if err := s.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	return rows, nil
}

// AddMember grants a user non-owner access to the vendor. Owner only.
func (s *service) AddMember(ctx context.Context, actor Actor, vendorID, userID uuid.UUID) (*models.VendorTeamMember, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.Authorize(ctx, actor, vendorID, true); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	addedBy := actor.UserID
	member := &models.VendorTeamMember{
		UserID:   userID,
		VendorID: vendorID,
		IsOwner:  false,
		AddedBy:  &addedBy,
	}
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_team_members_user_vendor") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a team member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create team member")
	}
	return created, nil
}

// RemoveMember revokes a user's access. Owner only; the owner row itself
// cannot be removed.
func (s *service) RemoveMember(ctx context.Context, actor Actor, vendorID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.Authorize(ctx, actor, vendorID, true); err != nil {
		return err
	}

	member, err := s.repo.FindMembership(ctx, userID, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "team member not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if member.IsOwner {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the vendor owner")
	}

	if err := s.repo.Delete(ctx, userID, vendorID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete team member")
	}
	return nil
}
