package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("ACTIVITY_RATE_LIMIT", "")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_DATABASE", "")
	t.Setenv("ES_URL", "http://es:9200")
	t.Setenv("NOTIFY_TIMEOUT", "")

	cfg := load()
	assert.Equal(t, "recommendation", cfg.ServiceName)
	assert.Equal(t, 5.0, cfg.ActivityRateLimit)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, "http://es:9200", cfg.ESURL)
	assert.Equal(t, 2*time.Second, cfg.NotifyTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "reco-eu")
	t.Setenv("ACTIVITY_RATE_LIMIT", "0.5")
	t.Setenv("NEO4J_URI", "neo4j://graph:7687")
	t.Setenv("NEO4J_DATABASE", "orders")
	t.Setenv("NOTIFY_TIMEOUT", "750ms")

	cfg := load()
	assert.Equal(t, "reco-eu", cfg.ServiceName)
	assert.Equal(t, 0.5, cfg.ActivityRateLimit)
	assert.Equal(t, "neo4j://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "orders", cfg.Neo4j.Database)
	assert.Equal(t, 750*time.Millisecond, cfg.NotifyTimeout)
}
