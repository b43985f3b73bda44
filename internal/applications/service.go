package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/mailer"
)

// SubmitInput carries the business details for a new vendor application.
type SubmitInput struct {
	BusinessName string
	Description  string
	StoryMission string
	Email        string
	Phone        string
	Address      string
	City         string
	State        string
	ZipCode      string
	Country      string
	ServiceArea  string
	ShipsGoods   bool
}

// Service manages the vendor onboarding pipeline: submission, admin review,
// and the approval that materializes a vendor with its owning team member.
type Service interface {
	Submit(ctx context.Context, applicantID uuid.UUID, input SubmitInput) (*models.VendorApplication, error)
	List(ctx context.Context, status *enums.ApplicationStatus) ([]models.VendorApplication, error)
	Approve(ctx context.Context, reviewerID, applicationID uuid.UUID) (*models.Vendor, error)
	Reject(ctx context.Context, reviewerID, applicationID uuid.UUID, reason string) (*models.VendorApplication, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	mailer mailer.Sender
	logg   *logger.Logger
}

// NewService builds an application service backed by the provided stack.
func NewService(repo Repository, tx txRunner, sender mailer.Sender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("application repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, mailer: sender, logg: logg}, nil
}

// Submit files an application. The business name must not collide with an
// existing vendor or another pending application.
func (s *service) Submit(ctx context.Context, applicantID uuid.UUID, input SubmitInput) (*models.VendorApplication, error) {
	if applicantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "applicant id is required")
	}
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
	}

	taken, err := s.repo.VendorNameTaken(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor name")
	}
	if !taken {
		taken, err = s.repo.PendingNameTaken(ctx, name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending applications")
		}
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "business name is already in use")
	}

	application := &models.VendorApplication{
		ApplicantID:  applicantID,
		BusinessName: name,
		Description:  strings.TrimSpace(input.Description),
		StoryMission: strings.TrimSpace(input.StoryMission),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		ZipCode:      strings.TrimSpace(input.ZipCode),
		Country:      strings.TrimSpace(input.Country),
		ServiceArea:  strings.TrimSpace(input.ServiceArea),
		ShipsGoods:   input.ShipsGoods,
		Status:       enums.ApplicationStatusPending,
	}
	created, err := s.repo.Create(ctx, application)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	return created, nil
}

// List returns applications for the admin review queue.
func (s *service) List(ctx context.Context, status *enums.ApplicationStatus) ([]models.VendorApplication, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status")
	}
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return rows, nil
}

// Approve turns a pending application into a verified vendor owned by the
// applicant. Vendor creation, membership, and the status flip commit
// together; the notification afterwards is best effort.
func (s *service) Approve(ctx context.Context, reviewerID, applicationID uuid.UUID) (*models.Vendor, error) {
	var (
		vendor      *models.Vendor
		application *models.VendorApplication
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loaded, err := txRepo.FindByIDLocked(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return err
		}
		if loaded.Status != enums.ApplicationStatusPending {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"application is already %s", loaded.Status)
		}

		appID := loaded.ID
		vendor = &models.Vendor{
			Name:          loaded.BusinessName,
			Description:   loaded.Description,
			StoryMission:  loaded.StoryMission,
			Email:         loaded.Email,
			Phone:         loaded.Phone,
			Address:       loaded.Address,
			City:          loaded.City,
			State:         loaded.State,
			ZipCode:       loaded.ZipCode,
			Country:       loaded.Country,
			ServiceArea:   loaded.ServiceArea,
			ShipsGoods:    loaded.ShipsGoods,
			IsActive:      true,
			IsVerified:    true,
			ApplicationID: &appID,
		}
		if _, err := txRepo.CreateVendor(ctx, vendor); err != nil {
			if db.IsUniqueViolation(err, "uq_vendors_name") {
				return pkgerrors.New(pkgerrors.CodeConflict, "vendor name is already in use")
			}
			return err
		}

		if _, err := txRepo.CreateTeamMember(ctx, &models.VendorTeamMember{
			UserID:   loaded.ApplicantID,
			VendorID: vendor.ID,
			IsOwner:  true,
			AddedBy:  &reviewerID,
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		loaded.Status = enums.ApplicationStatusApproved
		loaded.ReviewedBy = &reviewerID
		loaded.ReviewedAt = &now
		if _, err := txRepo.Update(ctx, loaded); err != nil {
			return err
		}
		application = loaded
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve application")
	}

	s.notify(ctx, application.Email, "Your vendor application was approved",
		fmt.Sprintf("Congratulations! %s is now live on the marketplace.", application.BusinessName))
	return vendor, nil
}

// Reject marks a pending application rejected with the reviewer's reason.
func (s *service) Reject(ctx context.Context, reviewerID, applicationID uuid.UUID, reason string) (*models.VendorApplication, error) {
	var application *models.VendorApplication
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loaded, err := txRepo.FindByIDLocked(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return err
		}
		if loaded.Status != enums.ApplicationStatusPending {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"application is already %s", loaded.Status)
		}

		now := time.Now().UTC()
		loaded.Status = enums.ApplicationStatusRejected
		loaded.ReviewedBy = &reviewerID
		loaded.ReviewedAt = &now
		loaded.RejectionReason = strings.TrimSpace(reason)
		if _, err := txRepo.Update(ctx, loaded); err != nil {
			return err
		}
		application = loaded
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject application")
	}

	body := "We reviewed your application and cannot approve it at this time."
	if application.RejectionReason != "" {
		body += "\n\nReason: " + application.RejectionReason
	}
	s.notify(ctx, application.Email, "Your vendor application was not approved", body)
	return application, nil
}

func (s *service) notify(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logg.Warn(ctx, "application notification failed: "+err.Error())
	}
}
