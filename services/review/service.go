package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"beautybook/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxCommentLength = 500

var ErrInvalidReview = errors.New("invalid review")

// Repository is the review store.
type Repository interface {
	ListByProfessional(ctx context.Context, professionalID string) ([]models.Review, error)
	Create(ctx context.Context, r *models.Review) error
}

// RatingUpdater receives the refreshed aggregate after a review is stored.
type RatingUpdater interface {
	UpdateProfessionalRating(ctx context.Context, professionalID string, rating float64, reviewCount int) error
}

// SubmitRequest is the customer's input for a new review.
type SubmitRequest struct {
	BookingID      string `json:"bookingId"`
	ProfessionalID string `json:"professionalId" validate:"required"`
	CustomerID     string `json:"customerId" validate:"required"`
	Rating         int    `json:"rating" validate:"min=1,max=5"`
	Comment        string `json:"comment" validate:"max=500"`
}

// ReviewService lists, summarizes and accepts reviews for professionals.
type ReviewService interface {
	List(ctx context.Context, professionalID string, policy SortPolicy) ([]models.Review, error)
	Summary(ctx context.Context, professionalID string) (models.RatingSummary, error)
	Submit(ctx context.Context, req SubmitRequest) (*models.Review, error)
}

type DefaultReviewService struct {
	repo     Repository
	ratings  RatingUpdater
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewReviewService wires the store. ratings may be nil when professional
// aggregates are maintained elsewhere.
func NewReviewService(repo Repository, ratings RatingUpdater, logger *zap.Logger) *DefaultReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReviewService{
		repo:     repo,
		ratings:  ratings,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *DefaultReviewService) List(ctx context.Context, professionalID string, policy SortPolicy) ([]models.Review, error) {
	reviews, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return Sort(reviews, policy), nil
}

func (s *DefaultReviewService) Summary(ctx context.Context, professionalID string) (models.RatingSummary, error) {
	reviews, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to list reviews: %w", err)
	}
	return Summarize(reviews), nil
}

// Submit validates and stores a review, then refreshes the professional's
// rating. A failed refresh is logged and does not fail the submission.
func (s *DefaultReviewService) Submit(ctx context.Context, req SubmitRequest) (*models.Review, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReview, describe(err))
	}

	r := &models.Review{
		ID:             uuid.New().String(),
		BookingID:      req.BookingID,
		CustomerID:     req.CustomerID,
		ProfessionalID: req.ProfessionalID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to store review: %w", err)
	}
	s.logger.Info("Review submitted",
		zap.String("reviewID", r.ID),
		zap.String("professionalID", r.ProfessionalID),
		zap.Int("rating", r.Rating),
	)

	if s.ratings != nil {
		summary, err := s.Summary(ctx, r.ProfessionalID)
		if err == nil {
			err = s.ratings.UpdateProfessionalRating(ctx, r.ProfessionalID, summary.Average, summary.Total)
		}
		if err != nil {
			s.logger.Warn("Failed to refresh professional rating",
				zap.String("professionalID", r.ProfessionalID), zap.Error(err))
		}
	}
	return r, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Rating":
			parts = append(parts, "rating must be between 1 and 5")
		case "Comment":
			parts = append(parts, fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
		default:
			parts = append(parts, strings.ToLower(fe.Field()[:1])+fe.Field()[1:]+" is required")
		}
	}
	return strings.Join(parts, "; ")
}
