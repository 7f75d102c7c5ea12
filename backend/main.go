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

	"pharmacy/m/internal/api"
	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/config"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/logging"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/seed"
	"pharmacy/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return err
	}

	st := store.New(db)
	authSvc := auth.NewService(st.Users, auth.NewTokenProvider(cfg.JWTSecret, cfg.JWTExpiration), logger.Named("auth"))

	admin := seed.Admin{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Email: cfg.AdminEmail}
	if _, err := seed.EnsureAdmin(ctx, st.Users, authSvc, admin, logger.Named("seed")); err != nil {
		return err
	}
	if cfg.SeedMedicinesCSV != "" {
		if _, err := seed.LoadMedicines(ctx, st, cfg.SeedMedicinesCSV, logger.Named("seed")); err != nil {
			logger.Warn("unable to load medicine catalog", zap.String("path", cfg.SeedMedicinesCSV), zap.Error(err))
		}
	}

	handler := api.New(st, authSvc, cfg.CORSOrigins, logger.Named("http"))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pharmacy server starting",
			zap.String("addr", srv.Addr),
			zap.String("driver", db.DriverName()),
			zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
