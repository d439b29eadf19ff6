package store

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvault/ledger/internal/repository"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so every query can run either auto-committed or inside a
// unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed ledger store. Calling its repository
// methods directly runs them on the pool (each statement commits on its
// own); WithinTx groups them into one atomic unit of work.
type Store struct {
	queries
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{queries: queries{db: pool}, pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WithinTx runs fn inside a single transaction. Row locks taken by fn
// are held until the transaction commits or rolls back. Any error from
// fn aborts the whole unit of work and is returned unchanged.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repository) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

// Migrate creates the three ledger tables. The unique constraint on
// (transaction_id, transaction_type) is the authoritative idempotency
// guard; the engine treats a violation of it as a duplicate movement.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS accounts (
		id             BIGSERIAL PRIMARY KEY,
		account_number TEXT NOT NULL UNIQUE,
		status         TEXT NOT NULL,
		balance        NUMERIC(20,2) NOT NULL,
		currency       TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id              BIGSERIAL PRIMARY KEY,
		from_account_id BIGINT NOT NULL REFERENCES accounts (id),
		to_account_id   BIGINT NOT NULL REFERENCES accounts (id),
		status          TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS account_transactions (
		id               BIGSERIAL PRIMARY KEY,
		account_id       BIGINT NOT NULL REFERENCES accounts (id),
		amount           NUMERIC(20,2) NOT NULL,
		transaction_type TEXT NOT NULL,
		balance          NUMERIC(20,2) NOT NULL,
		transfer_id      BIGINT REFERENCES transfers (id),
		transaction_id   TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT ux_account_transactions_txid_type
			UNIQUE (transaction_id, transaction_type)
	);

	CREATE INDEX IF NOT EXISTS ix_account_transactions_account
		ON account_transactions (account_id, created_at);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
