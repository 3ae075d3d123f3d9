package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/legisdash/legisdash/config"
	"github.com/legisdash/legisdash/internal/api"
	"github.com/legisdash/legisdash/internal/api/handlers"
	"github.com/legisdash/legisdash/internal/core/deputy"
	"github.com/legisdash/legisdash/internal/core/event"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/proposition"
	"github.com/legisdash/legisdash/internal/core/session"
	"github.com/legisdash/legisdash/internal/logger"
	"github.com/legisdash/legisdash/internal/metrics"
	"github.com/legisdash/legisdash/internal/storage/postgres"
	"github.com/legisdash/legisdash/internal/upstream"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Pick the session store
	var repo session.Repository
	store := "memory"
	if cfg.Database.Enabled() {
		db, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		pg := session.NewPostgresRepository(db)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate session schema")
		}
		repo, store = pg, "postgres"
	} else {
		repo = session.NewMemoryRepository()
	}

	// Initialize services
	client := upstream.NewClient(&cfg.Upstream, log, m)
	propositions := proposition.NewService(client)
	deputies := deputy.NewService(client)
	events := event.Fetcher(client)

	sessions := session.NewManager(
		repo,
		session.Views{Propositions: propositions, Deputies: deputies, Events: events},
		log, m,
		listquery.Options{DebounceWindow: cfg.List.DebounceWindow},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, cfg.Session.SweepInterval, cfg.Session.MaxIdle)

	// Setup router
	router := api.NewRouter(
		log, m, registry, &cfg.CORS,
		handlers.NewViewHandler(sessions),
		handlers.NewPropositionHandler(propositions),
		handlers.NewDeputyHandler(deputies),
		handlers.NewOverviewHandler(propositions, deputies, events),
	)
	engine := router.Setup(cfg.Server.Mode)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.LogServerStart(cfg.Server.Port, cfg.Upstream.BaseURL, store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.LogServerShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	sessions.Shutdown()
}
