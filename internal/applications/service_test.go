package applications

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type stubApplicationRepo struct {
	applications map[uuid.UUID]*models.VendorApplication
	vendorNames  map[string]bool

	vendors []*models.Vendor
	members []*models.VendorTeamMember

	createVendorErr error
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{
		applications: map[uuid.UUID]*models.VendorApplication{},
		vendorNames:  map[string]bool{},
	}
}

func (s *stubApplicationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubApplicationRepo) Create(_ context.Context, application *models.VendorApplication) (*models.VendorApplication, error) {
	application.ID = uuid.New()
	s.applications[application.ID] = application
	return application, nil
}

func (s *stubApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	if a, ok := s.applications[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubApplicationRepo) FindByIDLocked(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	return s.FindByID(ctx, id)
}

func (s *stubApplicationRepo) List(_ context.Context, status *enums.ApplicationStatus) ([]models.VendorApplication, error) {
	var rows []models.VendorApplication
	for _, a := range s.applications {
		if status == nil || a.Status == *status {
			rows = append(rows, *a)
		}
	}
	return rows, nil
}

func (s *stubApplicationRepo) Update(_ context.Context, application *models.VendorApplication) (*models.VendorApplication, error) {
	s.applications[application.ID] = application
	return application, nil
}

func (s *stubApplicationRepo) VendorNameTaken(_ context.Context, name string) (bool, error) {
	return s.vendorNames[strings.ToLower(name)], nil
}

func (s *stubApplicationRepo) PendingNameTaken(_ context.Context, name string) (bool, error) {
	for _, a := range s.applications {
		if a.Status == enums.ApplicationStatusPending && strings.EqualFold(a.BusinessName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubApplicationRepo) CreateVendor(_ context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if s.createVendorErr != nil {
		return nil, s.createVendorErr
	}
	vendor.ID = uuid.New()
	s.vendors = append(s.vendors, vendor)
	return vendor, nil
}

func (s *stubApplicationRepo) CreateTeamMember(_ context.Context, member *models.VendorTeamMember) (*models.VendorTeamMember, error) {
	member.ID = uuid.New()
	s.members = append(s.members, member)
	return member, nil
}

type stubTxRunner struct {
	rolledBack bool
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		s.rolledBack = true
		return err
	}
	return nil
}

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, _, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, to)
	return nil
}

func newApplicationService(t *testing.T, repo Repository, tx txRunner, sender *recordingSender) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(repo, tx, sender, logg)
	require.NoError(t, err)
	return svc
}

func validInput() SubmitInput {
	return SubmitInput{
		BusinessName: "Green Valley Farm",
		Description:  "Organic produce",
		Email:        "hello@greenvalley.test",
		City:         "Asheville",
		State:        "NC",
	}
}

func TestSubmit(t *testing.T) {
	applicantID := uuid.New()

	t.Run("creates a pending application", func(t *testing.T) {
		repo := newStubApplicationRepo()
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

		application, err := svc.Submit(context.Background(), applicantID, validInput())
		require.NoError(t, err)
		require.Equal(t, enums.ApplicationStatusPending, application.Status)
		require.Equal(t, applicantID, application.ApplicantID)
		require.Equal(t, "Green Valley Farm", application.BusinessName)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := newStubApplicationRepo()
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

		input := validInput()
		input.BusinessName = "   "
		_, err := svc.Submit(context.Background(), applicantID, input)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

		input = validInput()
		input.Email = ""
		_, err = svc.Submit(context.Background(), applicantID, input)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("name collides with existing vendor", func(t *testing.T) {
		repo := newStubApplicationRepo()
		repo.vendorNames["green valley farm"] = true
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

		_, err := svc.Submit(context.Background(), applicantID, validInput())
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	})

	t.Run("name collides with pending application", func(t *testing.T) {
		repo := newStubApplicationRepo()
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})
		ctx := context.Background()

		_, err := svc.Submit(ctx, applicantID, validInput())
		require.NoError(t, err)

		_, err = svc.Submit(ctx, uuid.New(), validInput())
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	})
}

func TestApprove(t *testing.T) {
	reviewerID := uuid.New()
	applicantID := uuid.New()

	seed := func(repo *stubApplicationRepo) *models.VendorApplication {
		application := &models.VendorApplication{
			ID:           uuid.New(),
			ApplicantID:  applicantID,
			BusinessName: "Blue Ridge Creamery",
			Email:        "cheese@blueridge.test",
			Status:       enums.ApplicationStatusPending,
		}
		repo.applications[application.ID] = application
		return application
	}

	t.Run("creates vendor and owner membership", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := seed(repo)
		sender := &recordingSender{}
		svc := newApplicationService(t, repo, &stubTxRunner{}, sender)

		vendor, err := svc.Approve(context.Background(), reviewerID, application.ID)
		require.NoError(t, err)
		require.Equal(t, "Blue Ridge Creamery", vendor.Name)
		require.True(t, vendor.IsActive)
		require.True(t, vendor.IsVerified)
		require.NotNil(t, vendor.ApplicationID)
		require.Equal(t, application.ID, *vendor.ApplicationID)

		require.Len(t, repo.members, 1)
		member := repo.members[0]
		require.Equal(t, applicantID, member.UserID)
		require.Equal(t, vendor.ID, member.VendorID)
		require.True(t, member.IsOwner)

		stored := repo.applications[application.ID]
		require.Equal(t, enums.ApplicationStatusApproved, stored.Status)
		require.NotNil(t, stored.ReviewedBy)
		require.Equal(t, reviewerID, *stored.ReviewedBy)
		require.NotNil(t, stored.ReviewedAt)

		require.Equal(t, []string{"cheese@blueridge.test"}, sender.sent)
	})

	t.Run("only pending applications approve", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := seed(repo)
		application.Status = enums.ApplicationStatusRejected
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

		_, err := svc.Approve(context.Background(), reviewerID, application.ID)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
		require.Empty(t, repo.vendors)
	})

	t.Run("unknown application", func(t *testing.T) {
		svc := newApplicationService(t, newStubApplicationRepo(), &stubTxRunner{}, &recordingSender{})
		_, err := svc.Approve(context.Background(), reviewerID, uuid.New())
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})

	t.Run("vendor creation failure aborts the transaction", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := seed(repo)
		repo.createVendorErr = gorm.ErrInvalidDB
		tx := &stubTxRunner{}
		svc := newApplicationService(t, repo, tx, &recordingSender{})

		_, err := svc.Approve(context.Background(), reviewerID, application.ID)
		require.Error(t, err)
		require.True(t, tx.rolledBack)
		require.Empty(t, repo.members)
		require.Equal(t, enums.ApplicationStatusPending, repo.applications[application.ID].Status)
	})

	t.Run("notification failure does not fail approval", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := seed(repo)
		sender := &recordingSender{err: gorm.ErrInvalidDB}
		svc := newApplicationService(t, repo, &stubTxRunner{}, sender)

		_, err := svc.Approve(context.Background(), reviewerID, application.ID)
		require.NoError(t, err)
	})
}

func TestReject(t *testing.T) {
	reviewerID := uuid.New()

	t.Run("records the reason and notifies", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := &models.VendorApplication{
			ID:           uuid.New(),
			ApplicantID:  uuid.New(),
			BusinessName: "Sketchy Farm",
			Email:        "owner@sketchy.test",
			Status:       enums.ApplicationStatusPending,
		}
		repo.applications[application.ID] = application
		sender := &recordingSender{}
		svc := newApplicationService(t, repo, &stubTxRunner{}, sender)

		rejected, err := svc.Reject(context.Background(), reviewerID, application.ID, "  incomplete details  ")
		require.NoError(t, err)
		require.Equal(t, enums.ApplicationStatusRejected, rejected.Status)
		require.Equal(t, "incomplete details", rejected.RejectionReason)
		require.Equal(t, []string{"owner@sketchy.test"}, sender.sent)
	})

	t.Run("only pending applications reject", func(t *testing.T) {
		repo := newStubApplicationRepo()
		application := &models.VendorApplication{
			ID:     uuid.New(),
			Status: enums.ApplicationStatusApproved,
		}
		repo.applications[application.ID] = application
		svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

		_, err := svc.Reject(context.Background(), reviewerID, application.ID, "nope")
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	})
}

func TestListApplications(t *testing.T) {
	repo := newStubApplicationRepo()
	pending := enums.ApplicationStatusPending
	repo.applications[uuid.New()] = &models.VendorApplication{Status: enums.ApplicationStatusPending}
	repo.applications[uuid.New()] = &models.VendorApplication{Status: enums.ApplicationStatusApproved}
	svc := newApplicationService(t, repo, &stubTxRunner{}, &recordingSender{})

	rows, err := svc.List(context.Background(), &pending)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	bad := enums.ApplicationStatus("weird")
	_, err = svc.List(context.Background(), &bad)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
