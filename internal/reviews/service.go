package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
	"github.com/farm2fork/farm2fork-backend/pkg/mailer"
)

const maxResponseLength = 1000

// Service handles consumer reviews and vendor responses. Review creation is
// public: reviews are not tied to user accounts.
type Service interface {
	CreateReview(ctx context.Context, vendorID uuid.UUID, consumerName string, rating int, comment string) (*models.Review, error)
	Respond(ctx context.Context, actor team.Actor, vendorID, reviewID uuid.UUID, text string, isPublic bool) (*models.ReviewResponse, error)
}

type service struct {
	repo   Repository
	team   vendorAuthorizer
	mailer mailer.Sender
	logg   *logger.Logger
}

// NewService builds a review service backed by the provided stack.
func NewService(repo Repository, team vendorAuthorizer, sender mailer.Sender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if team == nil {
		return nil, fmt.Errorf("team authorizer required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, team: team, mailer: sender, logg: logg}, nil
}

// CreateReview records public consumer feedback for an active vendor.
func (s *service) CreateReview(ctx context.Context, vendorID uuid.UUID, consumerName string, rating int, comment string) (*models.Review, error) {
	name := strings.TrimSpace(consumerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consumer name is required")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	active, err := s.repo.VendorActive(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if !active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}

	review := &models.Review{
		VendorID:     vendorID,
		ConsumerName: name,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return created, nil
}

// Respond upserts the vendor's single reply to a review. A repeat submission
// edits the existing response in place.
func (s *service) Respond(ctx context.Context, actor team.Actor, vendorID, reviewID uuid.UUID, text string, isPublic bool) (*models.ReviewResponse, error) {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)
	if length == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response text is required")
	}
	if length > maxResponseLength {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation,
			"response text cannot exceed %d characters", maxResponseLength)
	}

	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}

	var saved *models.ReviewResponse
	if review.Response != nil {
		review.Response.ResponseText = trimmed
		review.Response.IsPublic = isPublic
		saved, err = s.repo.UpdateResponse(ctx, review.Response)
	} else {
		saved, err = s.repo.CreateResponse(ctx, &models.ReviewResponse{
			ReviewID:     reviewID,
			VendorID:     vendorID,
			ResponseText: trimmed,
			IsPublic:     isPublic,
		})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review response")
	}

	if !isPublic {
		s.notifyReviewer(ctx, review, saved)
	}
	return saved, nil
}

// notifyReviewer tells the reviewer about a private response. Reviews carry
// only a display name, so there is usually no address to deliver to; the
// notification silently drops in that case. Failures are logged, never
// surfaced.
func (s *service) notifyReviewer(ctx context.Context, review *models.Review, response *models.ReviewResponse) {
	recipient := reviewerAddress(review)
	if recipient == "" {
		s.logg.Debug(ctx, "review response notification skipped: no reviewer address")
		return
	}

	subject := "A vendor replied to your review"
	body := fmt.Sprintf("Hi %s,\n\nThe vendor sent you a private reply:\n\n%s\n",
		review.ConsumerName, response.ResponseText)
	if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
		s.logg.Warn(ctx, "review response notification failed: "+err.Error())
	}
}

// reviewerAddress resolves a contact address for the reviewer. Reviews are
// anonymous today; this exists so delivery starts working the moment reviews
// gain a contact field.
func reviewerAddress(review *models.Review) string {
	if strings.Contains(review.ConsumerName, "@") {
		return strings.TrimSpace(review.ConsumerName)
	}
	return ""
}

// ResponseRate is the percentage of reviews that carry a response, 0 when
// there are no reviews.
func ResponseRate(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	responded := 0
	for _, r := range reviews {
		if r.Response != nil {
			responded++
		}
	}
	return float64(responded) / float64(len(reviews)) * 100
}
