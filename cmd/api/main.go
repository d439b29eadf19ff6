package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finvault/ledger/internal/api"
	"github.com/finvault/ledger/internal/config"
	"github.com/finvault/ledger/internal/service"
	"github.com/finvault/ledger/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ledgerStore, err := store.New(context.Background(), cfg.DBSource)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer ledgerStore.Close()

	if err := ledgerStore.Migrate(context.Background()); err != nil {
		logger.Error("unable to migrate schema", "error", err)
		os.Exit(1)
	}

	// Initialize Layers
	movements := service.NewMovementService(ledgerStore, logger)
	accounts := service.NewAccountService(ledgerStore, logger)
	transfers := service.NewTransferService(ledgerStore, movements, logger)
	handler := api.NewHandler(accounts, movements, transfers, validator.New(), logger)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	handler.Routes(r.PathPrefix("/api/v1").Subrouter())

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
