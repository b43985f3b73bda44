package reviews

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/logger"
)

type stubReviewRepo struct {
	reviews   map[uuid.UUID]*models.Review
	vendors   map[uuid.UUID]bool
	responses []*models.ReviewResponse
	updated   []*models.ReviewResponse
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{
		reviews: map[uuid.UUID]*models.Review{},
		vendors: map[uuid.UUID]bool{},
	}
}

func (s *stubReviewRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReviewRepo) FindByID(_ context.Context, reviewID uuid.UUID) (*models.Review, error) {
	if r, ok := s.reviews[reviewID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewRepo) Create(_ context.Context, review *models.Review) (*models.Review, error) {
	review.ID = uuid.New()
	s.reviews[review.ID] = review
	return review, nil
}

func (s *stubReviewRepo) CreateResponse(_ context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error) {
	response.ID = uuid.New()
	if r, ok := s.reviews[response.ReviewID]; ok {
		r.Response = response
	}
	s.responses = append(s.responses, response)
	return response, nil
}

func (s *stubReviewRepo) UpdateResponse(_ context.Context, response *models.ReviewResponse) (*models.ReviewResponse, error) {
	if r, ok := s.reviews[response.ReviewID]; ok {
		r.Response = response
	}
	s.updated = append(s.updated, response)
	return response, nil
}

func (s *stubReviewRepo) VendorActive(_ context.Context, vendorID uuid.UUID) (bool, error) {
	return s.vendors[vendorID], nil
}

type allowAllTeam struct{}

func (allowAllTeam) Authorize(context.Context, team.Actor, uuid.UUID, bool) error { return nil }

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

func newReviewService(t *testing.T, repo Repository, sender *recordingSender) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(repo, allowAllTeam{}, sender, logg)
	require.NoError(t, err)
	return svc
}

func TestCreateReview(t *testing.T) {
	vendorID := uuid.New()

	t.Run("valid review", func(t *testing.T) {
		repo := newStubReviewRepo()
		repo.vendors[vendorID] = true
		svc := newReviewService(t, repo, &recordingSender{})

		review, err := svc.CreateReview(context.Background(), vendorID, "  Pat  ", 4, " great produce ")
		require.NoError(t, err)
		require.Equal(t, "Pat", review.ConsumerName)
		require.Equal(t, 4, review.Rating)
		require.Equal(t, "great produce", review.Comment)
	})

	t.Run("rating bounds", func(t *testing.T) {
		repo := newStubReviewRepo()
		repo.vendors[vendorID] = true
		svc := newReviewService(t, repo, &recordingSender{})

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.CreateReview(context.Background(), vendorID, "Pat", rating, "")
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "rating %d", rating)
		}
	})

	t.Run("unknown vendor", func(t *testing.T) {
		svc := newReviewService(t, newStubReviewRepo(), &recordingSender{})
		_, err := svc.CreateReview(context.Background(), uuid.New(), "Pat", 3, "")
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
}

func TestRespond(t *testing.T) {
	vendorID := uuid.New()
	actor := team.Actor{UserID: uuid.New()}

	seedReview := func(repo *stubReviewRepo) *models.Review {
		review := &models.Review{ID: uuid.New(), VendorID: vendorID, ConsumerName: "Pat", Rating: 2}
		repo.reviews[review.ID] = review
		return review
	}

	t.Run("creates then edits in place", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := seedReview(repo)
		svc := newReviewService(t, repo, &recordingSender{})
		ctx := context.Background()

		first, err := svc.Respond(ctx, actor, vendorID, review.ID, "  sorry to hear that  ", true)
		require.NoError(t, err)
		require.Equal(t, "sorry to hear that", first.ResponseText)
		require.Len(t, repo.responses, 1)

		second, err := svc.Respond(ctx, actor, vendorID, review.ID, "we made it right", true)
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID, "upsert keeps the same row")
		require.Len(t, repo.responses, 1)
		require.Len(t, repo.updated, 1)
	})

	t.Run("length bounds", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := seedReview(repo)
		svc := newReviewService(t, repo, &recordingSender{})
		ctx := context.Background()

		_, err := svc.Respond(ctx, actor, vendorID, review.ID, "   ", true)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

		_, err = svc.Respond(ctx, actor, vendorID, review.ID, strings.Repeat("x", 1001), true)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

		_, err = svc.Respond(ctx, actor, vendorID, review.ID, strings.Repeat("x", 1000), true)
		require.NoError(t, err)
	})

	t.Run("length counts characters, not bytes", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := seedReview(repo)
		svc := newReviewService(t, repo, &recordingSender{})
		ctx := context.Background()

		// 600 CJK characters are 1800 bytes but well inside the limit.
		saved, err := svc.Respond(ctx, actor, vendorID, review.ID, strings.Repeat("界", 600), true)
		require.NoError(t, err)
		require.Equal(t, strings.Repeat("界", 600), saved.ResponseText)

		_, err = svc.Respond(ctx, actor, vendorID, review.ID, strings.Repeat("界", 1000), true)
		require.NoError(t, err)

		_, err = svc.Respond(ctx, actor, vendorID, review.ID, strings.Repeat("界", 1001), true)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("cross-vendor review invisible", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := &models.Review{ID: uuid.New(), VendorID: uuid.New()}
		repo.reviews[review.ID] = review
		svc := newReviewService(t, repo, &recordingSender{})

		_, err := svc.Respond(context.Background(), actor, vendorID, review.ID, "hello", true)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})

	t.Run("private response notifies reachable reviewer", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := &models.Review{ID: uuid.New(), VendorID: vendorID, ConsumerName: "pat@example.com", Rating: 1}
		repo.reviews[review.ID] = review
		sender := &recordingSender{}
		svc := newReviewService(t, repo, sender)

		_, err := svc.Respond(context.Background(), actor, vendorID, review.ID, "let's talk", false)
		require.NoError(t, err)
		require.Equal(t, []string{"pat@example.com"}, sender.sent)
	})

	t.Run("private response without address is a silent no-op", func(t *testing.T) {
		repo := newStubReviewRepo()
		review := seedReview(repo)
		sender := &recordingSender{}
		svc := newReviewService(t, repo, sender)

		_, err := svc.Respond(context.Background(), actor, vendorID, review.ID, "let's talk", false)
		require.NoError(t, err)
		require.Empty(t, sender.sent)
	})
}

func TestResponseRate(t *testing.T) {
	require.Zero(t, ResponseRate(nil))

	reviews := []models.Review{
		{Response: &models.ReviewResponse{}},
		{},
		{Response: &models.ReviewResponse{}},
		{},
	}
	require.InDelta(t, 50.0, ResponseRate(reviews), 0.001)
}
