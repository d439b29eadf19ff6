package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/config"
	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/store"
)

const (
	totalAccounts  = 1000
	initialBalance = "100.00"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	ledgerStore, err := store.New(ctx, cfg.DBSource)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer ledgerStore.Close()

	if err := ledgerStore.Migrate(ctx); err != nil {
		logger.Error("unable to migrate schema", "error", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var count int
	conn.QueryRow(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	if count >= totalAccounts {
		logger.Info("database already seeded", "accounts", count)
		return
	}

	logger.Info("seeding accounts", "total", totalAccounts)
	balance := decimal.RequireFromString(initialBalance)
	rows := [][]interface{}{}
	for i := 0; i < totalAccounts; i++ {
		rows = append(rows, []interface{}{
			uuid.NewString(), string(domain.AccountActive), balance.String(), string(domain.USD),
		})
	}

	copyCount, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"accounts"},
		[]string{"account_number", "status", "balance", "currency"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		logger.Error("bulk insert failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d accounts with balance %s USD\n", copyCount, initialBalance)
}
