package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abduss/accounts/internal/auth"
	"github.com/abduss/accounts/internal/config"
	"github.com/abduss/accounts/internal/logger"
	"github.com/abduss/accounts/internal/metrics"
	"github.com/abduss/accounts/internal/password"
	"github.com/abduss/accounts/internal/server"
	"github.com/abduss/accounts/internal/storage"
	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	skipMigrations bool
}

func serve(parent context.Context, opts serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher, err := password.NewHasher(cfg.Auth.SaltRounds)
	if err != nil {
		return fmt.Errorf("init password hasher: %w", err)
	}
	issuer, err := token.NewIssuer(cfg.Auth)
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	phoneRule := user.PhoneRule{Region: cfg.User.PhoneDefaultRegion}
	if err := user.RegisterValidators(phoneRule); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer dbPool.Close()

	if !opts.skipMigrations {
		if err := storage.Migrate(ctx, dbPool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrations applied")
	}

	metrics.InitMetrics()

	userService := user.NewService(user.NewRepository(dbPool), hasher, phoneRule)
	authService := auth.NewService(userService, hasher, issuer)

	router := server.NewRouter(server.Dependencies{
		Config:      cfg,
		Logger:      log,
		DB:          dbPool,
		Issuer:      issuer,
		AuthService: authService,
		UserService: userService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("accounts API listening", zap.String("addr", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
