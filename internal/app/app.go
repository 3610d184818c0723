package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-explorer/internal/clock"
	"recipe-explorer/internal/config"
	"recipe-explorer/internal/event"
	"recipe-explorer/internal/handler"
	"recipe-explorer/internal/middleware"
	"recipe-explorer/internal/repository"
	"recipe-explorer/internal/router"
	"recipe-explorer/internal/security"
	"recipe-explorer/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	clk := clock.System{}

	// All state is process-local and lost on restart by design.
	userRepo := repository.NewUserRepository()
	tokenRepo := repository.NewTokenRepository()
	recipeRepo := repository.NewRecipeRepository()
	ratingRepo := repository.NewRatingRepository()
	bus := event.NewBus()

	tokenService, err := service.NewTokenService(cfg.TokenSecret, cfg.TokenTTL, tokenRepo, clk)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	authService := service.NewAuthService(userRepo, tokenService, security.NewBcryptHasher(12), clk, bus)
	recipeService := service.NewRecipeService(recipeRepo, ratingRepo, clk, bus, cfg.DefaultPageSize, cfg.MaxPageSize)
	searchService := service.NewSearchService(recipeService)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Recipe: handler.NewRecipeHandler(recipeService),
		Search: handler.NewSearchHandler(searchService),
	})

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	if cfg.TokenSweepInterval > 0 {
		go tokenService.StartSweep(backgroundCtx, cfg.TokenSweepInterval)
	}
	go auditEvents(backgroundCtx, bus)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			backgroundCancel,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// auditEvents drains the bus and writes an audit line per domain event.
func auditEvents(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("event", "event_id", e.ID, "type", e.Type, "actor_id", e.ActorID)
		}
	}
}
