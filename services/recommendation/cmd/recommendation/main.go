package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Skotchmaster/dishonline/pkg/authclient"
	"github.com/Skotchmaster/dishonline/pkg/config"
	pkgdb "github.com/Skotchmaster/dishonline/pkg/db"
	"github.com/Skotchmaster/dishonline/pkg/es"
	"github.com/Skotchmaster/dishonline/pkg/logging"
	loggingmw "github.com/Skotchmaster/dishonline/pkg/middleware/logging"
	metricsmw "github.com/Skotchmaster/dishonline/pkg/middleware/metrics"
	"github.com/Skotchmaster/dishonline/pkg/mykafka"

	recocfg "github.com/Skotchmaster/dishonline/services/recommendation/internal/config"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/events"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/httpserver"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/repo"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/search"
	"github.com/Skotchmaster/dishonline/services/recommendation/internal/service"
)

func main() {
	if err := config.LoadDotenv(".env", "services/recommendation/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := recocfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var (
		publisher events.Publisher
		indexer   events.ActivityIndexer
		trending  service.TrendingSearcher
		producer  *mykafka.Producer
	)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err == nil {
			idx := search.NewActivityIndex(client, search.DefaultIndex)
			if err = idx.EnsureIndex(esCtx); err == nil {
				indexer, trending = idx, idx
			}
		}
		esCancel()
		if err != nil {
			logger.Warn("elasticsearch_disabled", "reason", "unreachable at startup", "error", err)
		}
	}

	r := &repo.GormRepo{DB: db}
	notifier := events.NewNotifier(publisher, indexer, logger)
	notifier.Timeout = cfg.NotifyTimeout

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.NewHTTP(prometheus.DefaultRegisterer, "recommendation").Middleware())
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Recommendations:   &httpserver.RecommendationHTTP{Engine: service.NewEngine(r)},
		Reviews:           &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Notifier: notifier}},
		Activity:          &httpserver.ActivityHTTP{Svc: &service.ActivityService{Repo: r, Notifier: notifier}},
		Search:            &httpserver.SearchHTTP{Svc: &service.SearchService{Index: trending}},
		DB:                db,
		JWTSecret:         cfg.JWTAccessSecret,
		AuthClient:        authclient.NewClient(cfg.AuthHTTPURL),
		ActivityRateLimit: cfg.ActivityRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("recommendation listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if producer != nil {
		_ = producer.Close()
	}
	pkgdb.Close(db)

	logger.Info("recommendation stopped")
}
