package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/repository"
)

// MovementService applies single-account balance mutations: one
// deposit or one withdraw, idempotent and atomic.
type MovementService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewMovementService(store repository.Store, logger *slog.Logger) *MovementService {
	return &MovementService{store: store, logger: logger}
}

// Deposit credits amount to the account in its own unit of work and
// returns the idempotency key the movement was applied under. A blank
// transactionID is replaced with a generated one.
func (s *MovementService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, transactionID string) (string, error) {
	transactionID = ensureTransactionID(transactionID)
	err := s.store.WithinTx(ctx, func(r repository.Repository) error {
		return s.apply(ctx, r, accountNumber, amount, transactionID, domain.Deposit, nil)
	})
	if err != nil {
		return "", err
	}
	return transactionID, nil
}

// Withdraw debits amount from the account in its own unit of work.
// Fails with domain.ErrInsufficientBalance when the amount exceeds the
// balance read under the row lock.
func (s *MovementService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, transactionID string) (string, error) {
	transactionID = ensureTransactionID(transactionID)
	err := s.store.WithinTx(ctx, func(r repository.Repository) error {
		return s.apply(ctx, r, accountNumber, amount, transactionID, domain.Withdraw, nil)
	})
	if err != nil {
		return "", err
	}
	return transactionID, nil
}

// ListTransactions returns the account's journal, oldest entry first.
func (s *MovementService) ListTransactions(ctx context.Context, accountNumber string) ([]domain.JournalEntry, error) {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.store.ListJournalEntries(ctx, account.ID)
}

// apply performs one movement against the Repository it is given, which
// must be bound to an open unit of work. The sequence is: advisory
// duplicate check, exclusive row lock, balance guard, journal insert,
// balance update. The unique constraint behind InsertJournalEntry is
// the authoritative duplicate guard; the advisory check only rejects
// replays early, before any lock is taken.
func (s *MovementService) apply(ctx context.Context, r repository.Repository, accountNumber string, amount decimal.Decimal, transactionID string, movementType domain.MovementType, transferID *int64) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	exists, err := r.JournalEntryExists(ctx, transactionID, movementType)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateMovement
	}

	account, err := r.LockAccountForUpdate(ctx, accountNumber)
	if err != nil {
		return err
	}

	if movementType == domain.Withdraw && amount.GreaterThan(account.Balance) {
		return fmt.Errorf("withdraw %s from account %s with balance %s: %w",
			amount, accountNumber, account.Balance, domain.ErrInsufficientBalance)
	}

	newBalance := account.Balance.Add(amount)
	if movementType == domain.Withdraw {
		newBalance = account.Balance.Sub(amount)
	}

	entry := &domain.JournalEntry{
		AccountID:     account.ID,
		Amount:        amount,
		Type:          movementType,
		Balance:       newBalance,
		TransferID:    transferID,
		TransactionID: transactionID,
	}
	if err := r.InsertJournalEntry(ctx, entry); err != nil {
		return err
	}
	if err := r.UpdateAccountBalance(ctx, accountNumber, newBalance); err != nil {
		return err
	}

	s.logger.Info("movement applied",
		"account", accountNumber,
		"type", movementType,
		"amount", amount.String(),
		"balance", newBalance.String(),
		"transaction_id", transactionID)
	return nil
}

// ensureTransactionID generates an idempotency key when the caller did
// not supply one.
func ensureTransactionID(transactionID string) string {
	if strings.TrimSpace(transactionID) == "" {
		return uuid.NewString()
	}
	return transactionID
}
