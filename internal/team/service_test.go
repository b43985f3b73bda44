package team

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

type stubTeamRepo struct {
	memberships map[string]*models.VendorTeamMember
	users       map[uuid.UUID]bool
	vendors     map[uuid.UUID]bool
	created     []*models.VendorTeamMember
	deleted     int
	createErr   error
}

func membershipKey(userID, vendorID uuid.UUID) string {
	return userID.String() + "|" + vendorID.String()
}

func (s *stubTeamRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTeamRepo) FindMembership(_ context.Context, userID, vendorID uuid.UUID) (*models.VendorTeamMember, error) {
	if m, ok := s.memberships[membershipKey(userID, vendorID)]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTeamRepo) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]models.VendorTeamMember, error) {
	var rows []models.VendorTeamMember
	for _, m := range s.memberships {
		if m.VendorID == vendorID {
			rows = append(rows, *m)
		}
	}
	return rows, nil
}

func (s *stubTeamRepo) ListVendorIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, m := range s.memberships {
		if m.UserID == userID {
			ids = append(ids, m.VendorID)
		}
	}
	return ids, nil
}

func (s *stubTeamRepo) ListAllVendorIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range s.vendors {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubTeamRepo) Create(_ context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	member.ID = uuid.New()
	if s.memberships == nil {
		s.memberships = map[string]*models.VendorTeamMember{}
	}
	s.memberships[membershipKey(member.UserID, member.VendorID)] = member
	s.created = append(s.created, member)
	return member, nil
}

func (s *stubTeamRepo) Delete(_ context.Context, userID, vendorID uuid.UUID) error {
	delete(s.memberships, membershipKey(userID, vendorID))
	s.deleted++
	return nil
}

func (s *stubTeamRepo) UserExists(_ context.Context, userID uuid.UUID) (bool, error) {
	return s.users[userID], nil
}

func (s *stubTeamRepo) VendorExists(_ context.Context, vendorID uuid.UUID) (bool, error) {
	return s.vendors[vendorID], nil
}

func newTeamService(t *testing.T, repo *stubTeamRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestAuthorize_MemberAndOwnerGates(t *testing.T) {
	vendorID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	strangerID := uuid.New()

	repo := &stubTeamRepo{memberships: map[string]*models.VendorTeamMember{
		membershipKey(ownerID, vendorID):  {UserID: ownerID, VendorID: vendorID, IsOwner: true},
		membershipKey(memberID, vendorID): {UserID: memberID, VendorID: vendorID},
	}}
	svc := newTeamService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name         string
		actor        Actor
		requireOwner bool
		wantCode     pkgerrors.Code
	}{
		{name: "member passes member gate", actor: Actor{UserID: memberID}},
		{name: "member fails owner gate", actor: Actor{UserID: memberID}, requireOwner: true, wantCode: pkgerrors.CodeForbidden},
		{name: "owner passes owner gate", actor: Actor{UserID: ownerID}, requireOwner: true},
		{name: "stranger fails member gate", actor: Actor{UserID: strangerID}, wantCode: pkgerrors.CodeForbidden},
		{name: "admin bypasses owner gate", actor: Actor{UserID: strangerID, IsAdmin: true}, requireOwner: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tc.actor, vendorID, tc.requireOwner)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, pkgerrors.IsCode(err, tc.wantCode))
		})
	}
}

func TestAddMember(t *testing.T) {
	vendorID := uuid.New()
	ownerID := uuid.New()
	newUserID := uuid.New()

	t.Run("owner adds a member", func(t *testing.T) {
		repo := &stubTeamRepo{
			memberships: map[string]*models.VendorTeamMember{
				membershipKey(ownerID, vendorID): {UserID: ownerID, VendorID: vendorID, IsOwner: true},
			},
			users: map[uuid.UUID]bool{newUserID: true},
		}
		svc := newTeamService(t, repo)

		member, err := svc.AddMember(context.Background(), Actor{UserID: ownerID}, vendorID, newUserID)
		require.NoError(t, err)
		require.False(t, member.IsOwner)
		require.NotNil(t, member.AddedBy)
		require.Equal(t, ownerID, *member.AddedBy)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := &stubTeamRepo{
			memberships: map[string]*models.VendorTeamMember{
				membershipKey(ownerID, vendorID): {UserID: ownerID, VendorID: vendorID, IsOwner: true},
			},
		}
		svc := newTeamService(t, repo)

		_, err := svc.AddMember(context.Background(), Actor{UserID: ownerID}, vendorID, newUserID)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})

	t.Run("non-owner cannot add", func(t *testing.T) {
		memberID := uuid.New()
		repo := &stubTeamRepo{
			memberships: map[string]*models.VendorTeamMember{
				membershipKey(memberID, vendorID): {UserID: memberID, VendorID: vendorID},
			},
			users: map[uuid.UUID]bool{newUserID: true},
		}
		svc := newTeamService(t, repo)

		_, err := svc.AddMember(context.Background(), Actor{UserID: memberID}, vendorID, newUserID)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	})
}

func TestRemoveMember(t *testing.T) {
	vendorID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()

	newRepo := func() *stubTeamRepo {
		return &stubTeamRepo{memberships: map[string]*models.VendorTeamMember{
			membershipKey(ownerID, vendorID):  {UserID: ownerID, VendorID: vendorID, IsOwner: true},
			membershipKey(memberID, vendorID): {UserID: memberID, VendorID: vendorID},
		}}
	}

	t.Run("owner removes member", func(t *testing.T) {
		repo := newRepo()
		svc := newTeamService(t, repo)
		require.NoError(t, svc.RemoveMember(context.Background(), Actor{UserID: ownerID}, vendorID, memberID))
		require.Equal(t, 1, repo.deleted)
	})

	t.Run("owner row is protected", func(t *testing.T) {
		svc := newTeamService(t, newRepo())
		err := svc.RemoveMember(context.Background(), Actor{UserID: ownerID}, vendorID, ownerID)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	})

	t.Run("missing membership", func(t *testing.T) {
		svc := newTeamService(t, newRepo())
		err := svc.RemoveMember(context.Background(), Actor{UserID: ownerID}, vendorID, uuid.New())
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
}

func TestAccessibleVendorIDs(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	userID := uuid.New()

	repo := &stubTeamRepo{
		memberships: map[string]*models.VendorTeamMember{
			membershipKey(userID, vendorA): {UserID: userID, VendorID: vendorA},
		},
		vendors: map[uuid.UUID]bool{vendorA: true, vendorB: true},
	}
	svc := newTeamService(t, repo)

	ids, err := svc.AccessibleVendorIDs(context.Background(), Actor{UserID: userID})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{vendorA}, ids)

	adminIDs, err := svc.AccessibleVendorIDs(context.Background(), Actor{UserID: uuid.New(), IsAdmin: true})
	require.NoError(t, err)
	require.Len(t, adminIDs, 2)
}
