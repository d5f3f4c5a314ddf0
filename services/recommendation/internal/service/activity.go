package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/events"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/metrics"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

const MaxSearchQuery = 200

type ActivityStatus string

const (
	StatusTracked ActivityStatus = "tracked"
	StatusIgnored ActivityStatus = "ignored"
	StatusInvalid ActivityStatus = "invalid"
)

// ActivityInput carries ids as raw strings; anything that is not a positive integer is dropped.
type ActivityInput struct {
	ActivityType string
	FoodID       string
	VendorID     string
	SearchQuery  string
}

type ActivityService struct {
	Repo     *repo.GormRepo
	Notifier *events.Notifier
}

func parseOptionalID(s string) *uint {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Track appends one activity row for an authenticated user. Anonymous calls write nothing.
func (s *ActivityService) Track(ctx context.Context, userID uint, in ActivityInput) (ActivityStatus, error) {
	l := logging.FromContext(ctx).With("svc", "activity")

	if userID == 0 {
		metrics.ActivitiesTracked.WithLabelValues(string(StatusIgnored)).Inc()
		return StatusIgnored, nil
	}
	if !models.IsActivityType(in.ActivityType) {
		metrics.ActivitiesTracked.WithLabelValues(string(StatusInvalid)).Inc()
		return StatusInvalid, fmt.Errorf("%w: activity_type must be one of %s", ErrValidation, strings.Join(models.ActivityTypes, ", "))
	}

	a := models.UserActivity{
		UserID:       userID,
		FoodItemID:   parseOptionalID(in.FoodID),
		VendorID:     parseOptionalID(in.VendorID),
		ActivityType: in.ActivityType,
		SearchQuery:  truncateRunes(in.SearchQuery, MaxSearchQuery),
	}
	if err := s.Repo.CreateActivity(ctx, &a); err != nil {
		l.Error("track_activity_error", "user_id", userID, "error", err)
		return "", err
	}

	s.Notifier.ActivityTracked(ctx, a)
	metrics.ActivitiesTracked.WithLabelValues(string(StatusTracked)).Inc()
	return StatusTracked, nil
}
