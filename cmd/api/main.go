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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/bankbridge/internal/config"
	"github.com/MrJamesThe3rd/bankbridge/internal/database"
	"github.com/MrJamesThe3rd/bankbridge/internal/history"
	historyStore "github.com/MrJamesThe3rd/bankbridge/internal/history/store"
	bridgeHttp "github.com/MrJamesThe3rd/bankbridge/internal/http"
	syncHandler "github.com/MrJamesThe3rd/bankbridge/internal/http/ledgersync"
	runsHandler "github.com/MrJamesThe3rd/bankbridge/internal/http/runs"
	"github.com/MrJamesThe3rd/bankbridge/internal/importer"
	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mode, _ := cfg.StatementMode()

	var (
		historyService = history.NewService(historyStore.New(db))
		ledgerClient   = ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.Timeout, ledger.WithLogger(logger))
		importService  = importer.NewService(importer.Config{
			Budget:         cfg.Ledger.Budget,
			Account:        cfg.Ledger.Account,
			ImportIDPrefix: cfg.Ledger.ImportIDPrefix,
		}, ledgerClient, historyService, metrics.New(nil), logger)
	)

	var (
		syncH = syncHandler.NewHandler(importService, cfg.Ledger.APIKey, mode, cfg.Server.MaxUploadBytes)
		runsH = runsHandler.NewHandler(historyService)
	)

	router := bridgeHttp.New(syncH, runsH, promhttp.Handler(), cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Ledger.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "mode", mode.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
