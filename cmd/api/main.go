package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chargehub/chargehub-go/internal/config"
	"github.com/chargehub/chargehub-go/internal/crypto"
	"github.com/chargehub/chargehub-go/internal/handler"
	"github.com/chargehub/chargehub-go/internal/logging"
	"github.com/chargehub/chargehub-go/internal/middleware"
	"github.com/chargehub/chargehub-go/internal/repository"
	"github.com/chargehub/chargehub-go/internal/service"
)

const (
	authRateLimitRPS   = 5
	authRateLimitBurst = 10
	shutdownTimeout    = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chargehub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := repository.Connect(ctx, db, cfg.DBConnectMaxBackoff, logger); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}

	hasher := crypto.NewPasswordHasher(crypto.HashParams{})
	tokens := crypto.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	authService := service.NewAuthService(repository.NewUserRepository(db), hasher, tokens, logger)
	stationService := service.NewStationService(repository.NewStationRepository(db), logger)

	authLimiter := middleware.NewRateLimiter(authRateLimitRPS, authRateLimitBurst, logger)
	defer authLimiter.Stop()

	router := handler.NewRouter(handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService, logger),
		Stations:       handler.NewStationHandler(stationService, logger),
		Health:         handler.NewHealthHandler(db, logger),
		Verifier:       tokens,
		AuthLimiter:    authLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
