package events

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/dishonline/pkg/breaker"
	"github.com/Skotchmaster/dishonline/pkg/logging"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/metrics"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

const (
	TopicActivity = "activity_events"
	TopicReviews  = "review_events"

	TypeActivityTracked = "activity_tracked"
	TypeReviewSubmitted = "review_submitted"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ActivityIndexer interface {
	IndexActivity(ctx context.Context, a models.UserActivity) error
}

type ActivityEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	ActivityID   uint      `json:"activity_id"`
	UserID       uint      `json:"user_id"`
	FoodItemID   *uint     `json:"food_item_id,omitempty"`
	VendorID     *uint     `json:"vendor_id,omitempty"`
	ActivityType string    `json:"activity_type"`
	SearchQuery  string    `json:"search_query,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type ReviewEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ReviewID   uint      `json:"review_id"`
	UserID     uint      `json:"user_id"`
	FoodItemID uint      `json:"food_item_id"`
	OrderID    uint      `json:"order_id"`
	Rating     int       `json:"rating"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}

const DefaultTimeout = 2 * time.Second

// Notifier fans a committed write out to Kafka and Elasticsearch. Every sink is
// optional and sits behind its own breaker; failures are logged and swallowed.
type Notifier struct {
	Publisher Publisher
	Indexer   ActivityIndexer
	Timeout   time.Duration

	pubBreaker *breaker.Breaker
	idxBreaker *breaker.Breaker
}

func NewNotifier(pub Publisher, idx ActivityIndexer, l *slog.Logger) *Notifier {
	return &Notifier{
		Publisher:  pub,
		Indexer:    idx,
		Timeout:    DefaultTimeout,
		pubBreaker: breaker.New(breaker.DefaultConfig("kafka"), l),
		idxBreaker: breaker.New(breaker.DefaultConfig("elasticsearch"), l),
	}
}

func (n *Notifier) ActivityTracked(ctx context.Context, a models.UserActivity) {
	if n == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "notifier", "activity_id", a.ID)

	if n.Publisher != nil {
		ev := ActivityEvent{
			EventID:      uuid.NewString(),
			Type:         TypeActivityTracked,
			ActivityID:   a.ID,
			UserID:       a.UserID,
			FoodItemID:   a.FoodItemID,
			VendorID:     a.VendorID,
			ActivityType: a.ActivityType,
			SearchQuery:  a.SearchQuery,
			OccurredAt:   a.CreatedAt.UTC(),
		}
		key := strconv.FormatUint(uint64(a.UserID), 10)
		if err := n.guard(ctx, n.pubBreaker, func(ctx context.Context) error {
			return n.Publisher.PublishEvent(ctx, TopicActivity, key, ev)
		}); err != nil {
			metrics.SideEffectFailures.WithLabelValues("kafka").Inc()
			l.Warn("publish_activity_error", "error", err)
		}
	}

	if n.Indexer != nil {
		if err := n.guard(ctx, n.idxBreaker, func(ctx context.Context) error {
			return n.Indexer.IndexActivity(ctx, a)
		}); err != nil {
			metrics.SideEffectFailures.WithLabelValues("elasticsearch").Inc()
			l.Warn("index_activity_error", "error", err)
		}
	}
}

func (n *Notifier) ReviewSubmitted(ctx context.Context, r models.Review, created bool) {
	if n == nil || n.Publisher == nil {
		return
	}
	ev := ReviewEvent{
		EventID:    uuid.NewString(),
		Type:       TypeReviewSubmitted,
		ReviewID:   r.ID,
		UserID:     r.UserID,
		FoodItemID: r.FoodItemID,
		OrderID:    r.OrderID,
		Rating:     r.Rating,
		Created:    created,
		OccurredAt: r.UpdatedAt.UTC(),
	}
	key := strconv.FormatUint(uint64(r.FoodItemID), 10)
	if err := n.guard(ctx, n.pubBreaker, func(ctx context.Context) error {
		return n.Publisher.PublishEvent(ctx, TopicReviews, key, ev)
	}); err != nil {
		metrics.SideEffectFailures.WithLabelValues("kafka").Inc()
		logging.FromContext(ctx).Warn("publish_review_error", "svc", "notifier", "review_id", r.ID, "error", err)
	}
}

func (n *Notifier) guard(ctx context.Context, b *breaker.Breaker, fn func(context.Context) error) error {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if b == nil {
		return fn(ctx)
	}
	return b.Do(func() error { return fn(ctx) })
}
