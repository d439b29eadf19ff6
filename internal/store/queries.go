package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
)

// queries implements repository.Repository against a Querier, so the
// same SQL serves both the pool and an open transaction.
type queries struct {
	db Querier
}

func (q queries) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	var account domain.Account
	err := q.db.QueryRow(ctx,
		`SELECT id, account_number, status, balance, currency, created_at
		 FROM accounts WHERE account_number = $1`,
		number,
	).Scan(&account.ID, &account.Number, &account.Status, &account.Balance, &account.Currency, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", number, err)
	}
	return &account, nil
}

func (q queries) InsertAccount(ctx context.Context, account *domain.Account) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO accounts (account_number, status, balance, currency)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		account.Number, account.Status, account.Balance, account.Currency,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account %s: %w", account.Number, err)
	}
	return nil
}

func (q queries) LockAccountForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	var account domain.Account
	err := q.db.QueryRow(ctx,
		`SELECT id, account_number, status, balance, currency, created_at
		 FROM accounts WHERE account_number = $1
		 FOR UPDATE`,
		number,
	).Scan(&account.ID, &account.Number, &account.Status, &account.Balance, &account.Currency, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidAccount
		}
		return nil, fmt.Errorf("lock account %s: %w", number, err)
	}
	return &account, nil
}

func (q queries) UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE accounts SET balance = $1 WHERE account_number = $2`,
		balance, number,
	)
	if err != nil {
		return fmt.Errorf("update balance of %s: %w", number, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidAccount
	}
	return nil
}

func (q queries) InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO account_transactions
		   (account_id, amount, transaction_type, balance, transfer_id, transaction_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		entry.AccountID, entry.Amount, entry.Type, entry.Balance, entry.TransferID, entry.TransactionID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateMovement
		}
		return fmt.Errorf("insert journal entry %s: %w", entry.TransactionID, err)
	}
	return nil
}

func (q queries) JournalEntryExists(ctx context.Context, transactionID string, movementType domain.MovementType) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM account_transactions
		   WHERE transaction_id = $1 AND transaction_type = $2)`,
		transactionID, movementType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check journal entry %s: %w", transactionID, err)
	}
	return exists, nil
}

func (q queries) ListJournalEntries(ctx context.Context, accountID int64) ([]domain.JournalEntry, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, account_id, amount, transaction_type, balance, transfer_id, transaction_id, created_at
		 FROM account_transactions
		 WHERE account_id = $1
		 ORDER BY created_at, id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &entry.Type,
			&entry.Balance, &entry.TransferID, &entry.TransactionID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

func (q queries) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO transfers (from_account_id, to_account_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		transfer.FromAccountID, transfer.ToAccountID, transfer.Status,
	).Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

func (q queries) UpdateTransferStatus(ctx context.Context, id int64, status domain.TransferStatus) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE transfers SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update transfer %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}
	return nil
}

func (q queries) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	var t domain.Transfer
	err := q.db.QueryRow(ctx,
		`SELECT id, from_account_id, to_account_id, status, created_at
		 FROM transfers WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("get transfer %d: %w", id, err)
	}
	return &t, nil
}
