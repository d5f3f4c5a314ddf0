package config

import (
	"os"
	"time"

	"github.com/Skotchmaster/dishonline/pkg/config"
)

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

type ServiceConfig struct {
	config.Config

	ESURL      string
	ESUser     string
	ESPassword string

	// ActivityRateLimit is requests per second per client on POST /activity. Zero disables the limiter.
	ActivityRateLimit float64
	// NotifyTimeout bounds each Kafka publish and Elasticsearch index after a committed write.
	NotifyTimeout time.Duration

	Neo4j Neo4jConfig
}

func load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "recommendation"
	}
	return ServiceConfig{
		Config:            cfg,
		ESURL:             os.Getenv("ES_URL"),
		ESUser:            os.Getenv("ES_USER"),
		ESPassword:        os.Getenv("ES_PASSWORD"),
		ActivityRateLimit: config.EnvFloatDefault("ACTIVITY_RATE_LIMIT", 5),
		NotifyTimeout:     config.EnvDurationDefault("NOTIFY_TIMEOUT", 2*time.Second),
		Neo4j: Neo4jConfig{
			URI:      os.Getenv("NEO4J_URI"),
			Username: config.EnvDefault("NEO4J_USERNAME", "neo4j"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: config.EnvDefault("NEO4J_DATABASE", "neo4j"),
		},
	}
}

// Load reads the server's environment and exits on missing required values.
func Load() ServiceConfig {
	cfg := load()
	cfg.MustValidate()
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")
	return cfg
}

// LoadDB is the smaller environment of the offline commands, which only need the database.
func LoadDB() ServiceConfig {
	cfg := load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return cfg
}

func LoadGraph() ServiceConfig {
	cfg := LoadDB()
	config.MustNonEmpty(cfg.Neo4j.URI, "NEO4J_URI")
	return cfg
}
