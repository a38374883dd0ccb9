package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/approval"
	"github.com/mauv0809/pingpong-ladder/internal/auth"
	"github.com/mauv0809/pingpong-ladder/internal/cache"
	"github.com/mauv0809/pingpong-ladder/internal/club"
	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/config"
	"github.com/mauv0809/pingpong-ladder/internal/database"
	server "github.com/mauv0809/pingpong-ladder/internal/http"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/notifier/slack"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db, cache.NewStore(cfg.CacheTTL))
	tally := metrics.NewTally(db)
	metricsSvc := metrics.NewService()
	recorder := metrics.NewPersistent(metricsSvc, tally)
	metricsHandler := metrics.NewMetricsHandler()

	var publisher pubsub.PubSubClient
	if cfg.ProjectID != "" {
		client, teardown, err := pubsub.New(context.Background(), cfg.ProjectID, recorder)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer teardown()
		publisher = client
	} else {
		log.Info("GCP_PROJECT not set, match events are logged locally")
		publisher = pubsub.NewLocal()
	}

	var notifier *slack.Notifier
	if cfg.Slack.Token != "" {
		notifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, recorder)
	} else {
		log.Info("SLACK_BOT_TOKEN not set, Slack messages are logged only")
		notifier = slack.NewNotifierWithAPI(nil, cfg.Slack.ChannelID, recorder)
	}

	generator := commentary.New(commentary.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model}, recorder)
	authSvc := auth.NewService(clubStore, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), recorder)
	workflow := approval.New(clubStore, publisher, recorder)

	s := server.NewServer(
		clubStore,
		authSvc,
		workflow,
		generator,
		notifier,
		recorder,
		metricsHandler,
		tally,
		cfg,
		publisher,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
