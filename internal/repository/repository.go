// Package repository declares the store contracts the ledger services
// are written against. The Postgres implementation lives in
// internal/store; tests substitute mocks.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
)

// Repository is the set of durable operations the engine needs. One
// Repository value is always bound to a single execution context:
// either the auto-committing pool or one open transaction.
type Repository interface {
	// GetAccountByNumber resolves an account without locking it.
	// Returns domain.ErrAccountNotFound when absent.
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// InsertAccount persists a new account and fills in its generated
	// id and creation time.
	InsertAccount(ctx context.Context, account *domain.Account) error

	// LockAccountForUpdate acquires the exclusive row lock for the
	// account and returns its current state. The lock is held until the
	// surrounding unit of work ends. Returns domain.ErrInvalidAccount
	// when absent.
	LockAccountForUpdate(ctx context.Context, number string) (*domain.Account, error)

	// UpdateAccountBalance overwrites the account balance. Callers must
	// hold the account's row lock.
	UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error

	// InsertJournalEntry appends an immutable journal entry. Returns
	// domain.ErrDuplicateMovement when (TransactionID, Type) already
	// exists.
	InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error

	// JournalEntryExists reports whether a journal entry with the given
	// idempotency key and movement type was already written.
	JournalEntryExists(ctx context.Context, transactionID string, movementType domain.MovementType) (bool, error)

	// ListJournalEntries returns an account's journal in creation order.
	ListJournalEntries(ctx context.Context, accountID int64) ([]domain.JournalEntry, error)

	// CreateTransfer persists a transfer record and fills in its
	// generated id and creation time.
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) error

	// UpdateTransferStatus moves a transfer to a terminal status.
	UpdateTransferStatus(ctx context.Context, id int64, status domain.TransferStatus) error

	// GetTransfer resolves a transfer by id. Returns
	// domain.ErrTransferNotFound when absent.
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
}

// Store is a Repository whose direct calls auto-commit, plus the
// ability to group calls into one atomic unit of work.
type Store interface {
	Repository

	// WithinTx runs fn inside a single transaction. The Repository
	// passed to fn shares that transaction; returning an error rolls
	// everything back.
	WithinTx(ctx context.Context, fn func(r Repository) error) error
}
