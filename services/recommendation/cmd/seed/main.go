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
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/seed"
)

func main() {
	wipe := flag.Bool("clear", false, "delete existing marketplace data before seeding")
	randSeed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	if err := config.LoadDotenv(".env", "services/recommendation/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}
	cfg := recocfg.LoadDB()

	logger := logging.New(cfg.LogLevel).With("service", "seed")
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)

	if err := models.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	s := seed.New(db, *randSeed)
	if *wipe {
		logger.Warn("clearing existing data")
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("clear: %v", err)
		}
	}

	st, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	logger.Info("seeding completed", "seed", *randSeed, "orders", st.Orders, "reviews", st.Reviews)
}
