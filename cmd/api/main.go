package main

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

	"github.com/salesboard/salesboard/internal/config"
	"github.com/salesboard/salesboard/internal/database"
	salesHttp "github.com/salesboard/salesboard/internal/http"
	initializeHandler "github.com/salesboard/salesboard/internal/http/initialize"
	txHandler "github.com/salesboard/salesboard/internal/http/transaction"
	"github.com/salesboard/salesboard/internal/importer"
	"github.com/salesboard/salesboard/internal/transaction"
	"github.com/salesboard/salesboard/internal/transaction/memory"
	txStore "github.com/salesboard/salesboard/internal/transaction/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		transactionService = transaction.NewService(repo, cfg.Dataset.ReferenceYear)
		importService      = importer.NewService(transactionService, cfg.Dataset.URL, cfg.Dataset.Timeout)
	)

	router := salesHttp.New(
		salesHttp.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
		},
		txHandler.NewHandler(transactionService),
		initializeHandler.NewHandler(importService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}

// openStore returns the configured record store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (transaction.Repository, func(), error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		return memory.New(), func() {}, nil
	}

	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		ConnectTimeout:  cfg.DB.ConnectTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}

	return txStore.New(db), closeDB, nil
}
