package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/transactions-backend/internal/bootstrap"
	seedclient "github.com/GregMSThompson/transactions-backend/internal/client/seed"
	"github.com/GregMSThompson/transactions-backend/internal/config"
	"github.com/GregMSThompson/transactions-backend/internal/handlers"
	"github.com/GregMSThompson/transactions-backend/internal/response"
	"github.com/GregMSThompson/transactions-backend/internal/router"
	"github.com/GregMSThompson/transactions-backend/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer func() {
		if err := bs.Close(); err != nil {
			bs.Log.Error("close failed", "error", err)
		}
	}()

	// clients
	seedAdapter := seedclient.NewAdapter(cfg.SeedURL, cfg.SeedTimeout)

	// services
	qserv := services.NewQueryService(bs.Transactions, bs.Cache)
	sserv := services.NewSeedService(seedAdapter, bs.Transactions, bs.Cache)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.QuerySvc = qserv
	deps.SeedSvc = sserv

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.SeedTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		bs.Log.Info("server starting", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			bs.Close()
			exitOnError("server start failed", err, bs.Log)
		}
	case <-ctx.Done():
		bs.Log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
		return
	}
	bs.Log.Info("server stopped")
}
