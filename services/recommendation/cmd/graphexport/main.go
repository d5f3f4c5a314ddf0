package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/Skotchmaster/dishonline/pkg/config"
	pkgdb "github.com/Skotchmaster/dishonline/pkg/db"
	"github.com/Skotchmaster/dishonline/pkg/logging"

	recocfg "github.com/Skotchmaster/dishonline/services/recommendation/internal/config"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/graph"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
)

func main() {
	wipe := flag.Bool("clear", false, "drop previously exported nodes first")
	batch := flag.Int("batch", graph.DefaultBatchSize, "order lines per write")
	flag.Parse()

	if err := config.LoadDotenv(".env", "services/recommendation/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}
	cfg := recocfg.LoadGraph()

	logger := logging.New(cfg.LogLevel).With("service", "graphexport")
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)

	client, err := graph.Connect(ctx, graph.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		log.Fatalf("neo4j: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	exp := &graph.Exporter{
		Source:    &repo.GormRepo{DB: db},
		Graph:     client,
		BatchSize: *batch,
		Clear:     *wipe,
	}
	st, err := exp.Run(ctx)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	logger.Info("graph export completed", "lines", st.Lines, "pairs", st.Pairs)
}
