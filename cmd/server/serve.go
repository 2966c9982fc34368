package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dennisdiepolder/callboard/internal/api"
	"github.com/dennisdiepolder/callboard/internal/auth"
	"github.com/dennisdiepolder/callboard/internal/cache"
	"github.com/dennisdiepolder/callboard/internal/config"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/metrics"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/ticker"
	"github.com/dennisdiepolder/callboard/internal/websocket"
	"github.com/dennisdiepolder/callboard/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("auth_mode", cfg.AuthMode).
		Msg("starting callboard server")

	store, err := storage.NewStore(ctx, storage.LoadStoreConfig(), log.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	authenticator, err := auth.NewAuthenticator(ctx, cfg.AuthMode, cfg.OIDCIssuer, log.Logger)
	if err != nil {
		return err
	}

	sessions := cache.NewSessionCache(store, dashboard.Options{
		StoreTimeout: cfg.StoreTimeout,
		ToastTTL:     cfg.ToastTTL,
	}, log.Logger)

	hub := websocket.NewHub(log.Logger)
	sessions.SetNotifier(hub.Publish)

	sweeper := ticker.NewTicker(sessions, cfg.SweepInterval, cfg.SessionIdleTimeout, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, sessions, store, hub, authenticator, log.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func newRouter(cfg *config.Config, sessions *cache.SessionCache, store storage.Store, hub *websocket.Hub, authenticator *auth.Authenticator, logger zerolog.Logger) http.Handler {
	h := api.NewHandler(sessions, store, logger)
	wsHandler := websocket.NewHandler(hub, sessions, cfg, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics)

	// Public routes
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Browser dashboard, keyed by the session cookie
	r.Get("/", h.Index)
	r.Post("/ui/actions", h.FormAction)
	r.Get("/charts/{name}.svg", h.Chart)
	r.Get("/ws", wsHandler.ServeHTTP)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(authenticator.Middleware)
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/actions", h.SessionAction)
		r.Get("/sessions/{id}/charts/{name}.svg", h.SessionChart)
		r.Get("/records/{email}", h.GetRecord)
	})

	return r
}
