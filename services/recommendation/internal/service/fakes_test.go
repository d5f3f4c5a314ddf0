package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/events"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/testdb"
)

type capture struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (c *capture) PublishEvent(_ context.Context, topic, _ string, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	c.events = append(c.events, event)
	return nil
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newWriters(t *testing.T) (*testdb.Fixture, *capture, *ActivityService, *ReviewService) {
	t.Helper()
	f := testdb.New(t)
	pub := &capture{}
	n := events.NewNotifier(pub, nil, slog.Default())
	r := &repo.GormRepo{DB: f.DB}
	return f, pub, &ActivityService{Repo: r, Notifier: n}, &ReviewService{Repo: r, Notifier: n}
}
