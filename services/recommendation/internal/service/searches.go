package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/search"
)

const (
	DefaultSearchDays  = 7
	DefaultSearchLimit = 10
)

type TrendingSearcher interface {
	TrendingSearches(ctx context.Context, since time.Time, limit int) ([]search.TrendingQuery, error)
}

type SearchService struct {
	Index TrendingSearcher
	Now   func() time.Time
}

func (s *SearchService) TrendingSearches(ctx context.Context, days, limit int) ([]search.TrendingQuery, error) {
	if s == nil || s.Index == nil {
		return nil, fmt.Errorf("%w: search index is not configured", ErrUnavailable)
	}
	if days == 0 {
		days = DefaultSearchDays
	}
	if days < 0 || days > 365 {
		return nil, fmt.Errorf("%w: days must be between 1 and 365", ErrValidation)
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	limit, err := pageLimit(limit)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	res, err := s.Index.TrendingSearches(ctx, now().UTC().AddDate(0, 0, -days), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, nil
}
