package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/metrics"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

type Kind string

const (
	KindOrderAgain               Kind = "order-again"
	KindFrequentlyBoughtTogether Kind = "frequently-bought-together"
	KindCustomersAlsoOrdered     Kind = "customers-also-ordered"
	KindTrending                 Kind = "trending"
	KindTopRated                 Kind = "top-rated"
	KindCategory                 Kind = "category"
	KindVendors                  Kind = "vendors"
	KindSimilarItems             Kind = "similar-items"
	KindHomepage                 Kind = "homepage"
)

const (
	MaxLimit       = 100
	TrendingWindow = 30 * 24 * time.Hour

	topCategories = 3
)

var defaultLimits = map[Kind]int{
	KindOrderAgain:               10,
	KindFrequentlyBoughtTogether: 6,
	KindCustomersAlsoOrdered:     10,
	KindTrending:                 10,
	KindTopRated:                 10,
	KindCategory:                 10,
	KindVendors:                  6,
	KindSimilarItems:             6,
	KindHomepage:                 6,
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := defaultLimits[k]; !ok {
		return "", fmt.Errorf("%w: unknown recommendation kind %q", ErrValidation, s)
	}
	return k, nil
}

// ResolveLimit applies the per-kind default to a zero limit and caps large ones.
func ResolveLimit(kind Kind, limit int) (int, error) {
	switch {
	case limit == 0:
		return defaultLimits[kind], nil
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must be positive", ErrValidation)
	case limit > MaxLimit:
		return MaxLimit, nil
	default:
		return limit, nil
	}
}

// Query is the input of one engine call. UserID 0 is an anonymous viewer,
// Limit 0 takes the kind's default.
type Query struct {
	UserID uint
	ItemID uint
	Limit  int
}

type Result struct {
	Kind    Kind            `json:"kind"`
	Items   []ItemSummary   `json:"items,omitempty"`
	Vendors []VendorSummary `json:"vendors,omitempty"`
}

type Homepage struct {
	OrderAgain         []ItemSummary   `json:"order_again"`
	ForYou             []ItemSummary   `json:"for_you"`
	RecommendedVendors []VendorSummary `json:"recommended_vendors"`
	Trending           []ItemSummary   `json:"trending"`
	TopRated           []ItemSummary   `json:"top_rated"`
}

// Engine answers recommendation queries straight from the order, catalog and review tables.
// It keeps no state between calls.
type Engine struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func NewEngine(r *repo.GormRepo) *Engine {
	return &Engine{Repo: r, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// Recommend dispatches a list kind. The homepage has its own shape; use Homepage for it.
func (e *Engine) Recommend(ctx context.Context, kind Kind, q Query) (*Result, error) {
	start := time.Now()
	res := &Result{Kind: kind}
	var err error

	switch kind {
	case KindOrderAgain:
		res.Items, err = e.OrderAgain(ctx, q.UserID, q.Limit)
	case KindFrequentlyBoughtTogether:
		res.Items, err = e.FrequentlyBoughtTogether(ctx, q.ItemID, q.Limit)
	case KindCustomersAlsoOrdered:
		res.Items, err = e.CustomersAlsoOrdered(ctx, q.UserID, q.Limit)
	case KindTrending:
		res.Items, err = e.Trending(ctx, q.Limit)
	case KindTopRated:
		res.Items, err = e.TopRated(ctx, q.Limit)
	case KindCategory:
		res.Items, err = e.CategoryRecommendations(ctx, q.UserID, q.Limit)
	case KindVendors:
		res.Vendors, err = e.VendorRecommendations(ctx, q.UserID, q.Limit)
	case KindSimilarItems:
		res.Items, err = e.SimilarItems(ctx, q.ItemID, q.Limit)
	default:
		return nil, fmt.Errorf("%w: kind %q is not a list", ErrValidation, kind)
	}
	if err != nil {
		return nil, err
	}

	metrics.EngineDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.EngineResults.WithLabelValues(string(kind)).Observe(float64(len(res.Items) + len(res.Vendors)))
	return res, nil
}

func (e *Engine) items(ctx context.Context, kind Kind, limit int, query func(limit int) ([]repo.Scored, error)) ([]ItemSummary, error) {
	limit, err := ResolveLimit(kind, limit)
	if err != nil {
		return nil, err
	}
	rows, err := query(limit)
	if err != nil {
		logging.FromContext(ctx).Error("engine_query_error", "svc", "engine", "kind", string(kind), "error", err)
		return nil, err
	}
	return hydrateItems(ctx, e.Repo, rows)
}

func requireItem(itemID uint) error {
	if itemID == 0 {
		return fmt.Errorf("%w: item is required", ErrValidation)
	}
	return nil
}

func (e *Engine) OrderAgain(ctx context.Context, userID uint, limit int) ([]ItemSummary, error) {
	if userID == 0 {
		_, err := ResolveLimit(KindOrderAgain, limit)
		return []ItemSummary{}, err
	}
	return e.items(ctx, KindOrderAgain, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.OrderAgain(ctx, userID, limit)
	})
}

func (e *Engine) FrequentlyBoughtTogether(ctx context.Context, itemID uint, limit int) ([]ItemSummary, error) {
	if err := requireItem(itemID); err != nil {
		return nil, err
	}
	return e.items(ctx, KindFrequentlyBoughtTogether, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.FrequentlyBoughtTogether(ctx, itemID, limit)
	})
}

func (e *Engine) CustomersAlsoOrdered(ctx context.Context, userID uint, limit int) ([]ItemSummary, error) {
	if userID == 0 {
		_, err := ResolveLimit(KindCustomersAlsoOrdered, limit)
		return []ItemSummary{}, err
	}
	return e.items(ctx, KindCustomersAlsoOrdered, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.CustomersAlsoOrdered(ctx, userID, limit)
	})
}

func (e *Engine) Trending(ctx context.Context, limit int) ([]ItemSummary, error) {
	since := e.now().Add(-TrendingWindow)
	return e.items(ctx, KindTrending, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.Trending(ctx, since, limit)
	})
}

func (e *Engine) TopRated(ctx context.Context, limit int) ([]ItemSummary, error) {
	return e.items(ctx, KindTopRated, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.TopRated(ctx, limit)
	})
}

func (e *Engine) CategoryRecommendations(ctx context.Context, userID uint, limit int) ([]ItemSummary, error) {
	if userID == 0 {
		_, err := ResolveLimit(KindCategory, limit)
		return []ItemSummary{}, err
	}
	return e.items(ctx, KindCategory, limit, func(limit int) ([]repo.Scored, error) {
		cats, err := e.Repo.TopCategories(ctx, userID, topCategories)
		if err != nil {
			return nil, err
		}
		return e.Repo.CategoryItems(ctx, userID, cats, limit)
	})
}

func (e *Engine) VendorRecommendations(ctx context.Context, userID uint, limit int) ([]VendorSummary, error) {
	limit, err := ResolveLimit(KindVendors, limit)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return []VendorSummary{}, nil
	}

	hasHistory, err := e.Repo.HasCompletedOrders(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []repo.Scored
	if hasHistory {
		rows, err = e.Repo.VendorsFromSimilarUsers(ctx, userID, limit)
	} else {
		rows, err = e.Repo.TopVendors(ctx, limit)
	}
	if err != nil {
		logging.FromContext(ctx).Error("engine_query_error", "svc", "engine", "kind", string(KindVendors), "error", err)
		return nil, err
	}
	return hydrateVendors(ctx, e.Repo, rows)
}

func (e *Engine) SimilarItems(ctx context.Context, itemID uint, limit int) ([]ItemSummary, error) {
	if err := requireItem(itemID); err != nil {
		return nil, err
	}
	return e.items(ctx, KindSimilarItems, limit, func(limit int) ([]repo.Scored, error) {
		return e.Repo.SimilarItems(ctx, itemID, limit)
	})
}

// Homepage builds every section concurrently. Personal sections stay empty for anonymous viewers.
func (e *Engine) Homepage(ctx context.Context, userID uint, limit int) (*Homepage, error) {
	limit, err := ResolveLimit(KindHomepage, limit)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	hp := &Homepage{
		OrderAgain:         []ItemSummary{},
		ForYou:             []ItemSummary{},
		RecommendedVendors: []VendorSummary{},
	}

	g, gctx := errgroup.WithContext(ctx)
	if userID != 0 {
		g.Go(func() error {
			items, err := e.OrderAgain(gctx, userID, limit)
			hp.OrderAgain = items
			return err
		})
		g.Go(func() error {
			items, err := e.CustomersAlsoOrdered(gctx, userID, limit)
			hp.ForYou = items
			return err
		})
		g.Go(func() error {
			vendors, err := e.VendorRecommendations(gctx, userID, limit)
			hp.RecommendedVendors = vendors
			return err
		})
	}
	g.Go(func() error {
		items, err := e.Trending(gctx, limit)
		hp.Trending = items
		return err
	})
	g.Go(func() error {
		items, err := e.TopRated(gctx, limit)
		hp.TopRated = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.EngineDuration.WithLabelValues(string(KindHomepage)).Observe(time.Since(start).Seconds())
	return hp, nil
}

func (e *Engine) FoodItemRating(ctx context.Context, itemID uint) (Rating, error) {
	if err := requireItem(itemID); err != nil {
		return Rating{}, err
	}
	row, err := e.Repo.ItemRating(ctx, itemID)
	if err != nil {
		return Rating{}, err
	}
	return ratingFrom(row), nil
}

func (e *Engine) VendorRating(ctx context.Context, vendorID uint) (Rating, error) {
	if vendorID == 0 {
		return Rating{}, fmt.Errorf("%w: vendor is required", ErrValidation)
	}
	row, err := e.Repo.VendorRating(ctx, vendorID)
	if err != nil {
		return Rating{}, err
	}
	return ratingFrom(row), nil
}
