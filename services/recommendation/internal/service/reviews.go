package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/events"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/metrics"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

const DefaultReviewPage = 20

var validate = validator.New()

type ReviewInput struct {
	OrderNumber string `validate:"required,max=20"`
	FoodItemID  uint   `validate:"required"`
	Rating      int    `validate:"min=1,max=5"`
	ReviewText  string `validate:"max=500"`
}

type ReviewView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	FoodItemID uint      `json:"food_item_id"`
	OrderID    uint      `json:"order_id"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func viewOf(r models.Review) ReviewView {
	return ReviewView{
		ID:         r.ID,
		UserID:     r.UserID,
		Username:   r.User.Username,
		FoodItemID: r.FoodItemID,
		OrderID:    r.OrderID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type ReviewResult struct {
	Review  ReviewView `json:"review"`
	Created bool       `json:"created"`
}

type ReviewListing struct {
	Rating
	Reviews []ReviewView `json:"reviews"`
}

type ReviewService struct {
	Repo     *repo.GormRepo
	Notifier *events.Notifier
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, "; "))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// Submit creates or replaces the caller's review of an item from one of their placed orders.
func (s *ReviewService) Submit(ctx context.Context, userID uint, in ReviewInput) (*ReviewResult, error) {
	l := logging.FromContext(ctx).With("svc", "reviews")

	if userID == 0 {
		return nil, fmt.Errorf("%w: login required to review", ErrUnauthorized)
	}
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	if err := validate.Struct(in); err != nil {
		metrics.ReviewsSubmitted.WithLabelValues("refused").Inc()
		return nil, validationError(err)
	}

	review, created, err := s.Repo.UpsertReview(ctx, repo.ReviewInput{
		UserID:      userID,
		OrderNumber: in.OrderNumber,
		FoodItemID:  in.FoodItemID,
		Rating:      in.Rating,
		ReviewText:  in.ReviewText,
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		metrics.ReviewsSubmitted.WithLabelValues("refused").Inc()
		return nil, ErrOrderNotEligible
	case errors.Is(err, repo.ErrNoOrderLine):
		metrics.ReviewsSubmitted.WithLabelValues("refused").Inc()
		return nil, ErrNotPurchased
	case err != nil:
		l.Error("submit_review_error", "user_id", userID, "error", err)
		return nil, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.ReviewsSubmitted.WithLabelValues(outcome).Inc()
	s.Notifier.ReviewSubmitted(ctx, *review, created)

	return &ReviewResult{Review: viewOf(*review), Created: created}, nil
}

func listing(rating repo.Scored, reviews []models.Review) *ReviewListing {
	out := &ReviewListing{Rating: ratingFrom(rating), Reviews: make([]ReviewView, 0, len(reviews))}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, viewOf(r))
	}
	return out
}

func pageLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultReviewPage, nil
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must be positive", ErrValidation)
	case limit > MaxLimit:
		return MaxLimit, nil
	}
	return limit, nil
}

func (s *ReviewService) ItemReviews(ctx context.Context, itemID uint, limit int) (*ReviewListing, error) {
	limit, err := pageLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetFoodItem(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: food item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	rating, err := s.Repo.ItemRating(ctx, itemID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Repo.ItemReviews(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}
	return listing(rating, reviews), nil
}

func (s *ReviewService) VendorReviews(ctx context.Context, slug string, limit int) (*ReviewListing, error) {
	limit, err := pageLimit(limit)
	if err != nil {
		return nil, err
	}
	vendor, err := s.Repo.GetVendorBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vendor %q", ErrNotFound, slug)
		}
		return nil, err
	}
	rating, err := s.Repo.VendorRating(ctx, vendor.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Repo.VendorReviews(ctx, vendor.ID, limit)
	if err != nil {
		return nil, err
	}
	return listing(rating, reviews), nil
}
