package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/repository"
)

// TransferService moves funds between two same-currency accounts as one
// logical transfer with a durable status trail. The withdraw and
// deposit legs share one unit of work; the transfer record itself is
// written and updated through the auto-committing store so the outcome
// survives a rollback of the legs.
type TransferService struct {
	store     repository.Store
	movements *MovementService
	logger    *slog.Logger
}

func NewTransferService(store repository.Store, movements *MovementService, logger *slog.Logger) *TransferService {
	return &TransferService{store: store, movements: movements, logger: logger}
}

// Transfer withdraws amount from the source account and deposits it
// into the destination account. It returns the idempotency key the two
// movements were applied under. On any leg failure the whole movement
// pair rolls back and the transfer record ends in INSUFFICIENT_BALANCE
// or ERROR; on success it ends in DONE.
func (s *TransferService) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, transactionID string) (string, error) {
	if fromNumber == toNumber {
		return "", domain.ErrSameAccount
	}

	fromAccount, err := s.store.GetAccountByNumber(ctx, fromNumber)
	if err != nil {
		return "", sideError("from", fromNumber, err)
	}
	toAccount, err := s.store.GetAccountByNumber(ctx, toNumber)
	if err != nil {
		return "", sideError("to", toNumber, err)
	}

	if fromAccount.Currency != toAccount.Currency {
		return "", domain.ErrIncompatibleCurrency
	}

	transactionID = ensureTransactionID(transactionID)

	// The transfer record is committed before any balance mutation so a
	// later rollback cannot erase the trail.
	transfer := &domain.Transfer{
		FromAccountID: fromAccount.ID,
		ToAccountID:   toAccount.ID,
		Status:        domain.TransferCreate,
	}
	if err := s.store.CreateTransfer(ctx, transfer); err != nil {
		return "", err
	}

	s.logger.Info("transfer started",
		"transfer_id", transfer.ID,
		"from", fromNumber,
		"to", toNumber,
		"amount", amount.String())

	err = s.store.WithinTx(ctx, func(r repository.Repository) error {
		// Lock both rows in ascending id order before the legs run, so
		// two opposite-direction transfers cannot deadlock. The legs
		// re-lock rows this transaction already holds, which is a no-op.
		if err := s.lockAccountPair(ctx, r, fromAccount, toAccount); err != nil {
			s.recordOutcome(ctx, transfer.ID, domain.TransferError)
			return err
		}

		if err := s.movements.apply(ctx, r, fromNumber, amount, transactionID, domain.Withdraw, &transfer.ID); err != nil {
			status := domain.TransferError
			if errors.Is(err, domain.ErrInsufficientBalance) {
				status = domain.TransferInsufficientBalance
			}
			s.recordOutcome(ctx, transfer.ID, status)
			return err
		}

		if err := s.movements.apply(ctx, r, toNumber, amount, transactionID, domain.Deposit, &transfer.ID); err != nil {
			s.recordOutcome(ctx, transfer.ID, domain.TransferError)
			return err
		}

		// Both legs succeeded; DONE commits together with them.
		return r.UpdateTransferStatus(ctx, transfer.ID, domain.TransferDone)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("transfer completed", "transfer_id", transfer.ID, "transaction_id", transactionID)
	return transactionID, nil
}

// GetTransfer returns a transfer record, including its durable status.
func (s *TransferService) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	return s.store.GetTransfer(ctx, id)
}

func (s *TransferService) lockAccountPair(ctx context.Context, r repository.Repository, a, b *domain.Account) error {
	first, second := a, b
	if first.ID > second.ID {
		first, second = second, first
	}
	if _, err := r.LockAccountForUpdate(ctx, first.Number); err != nil {
		return err
	}
	_, err := r.LockAccountForUpdate(ctx, second.Number)
	return err
}

// recordOutcome durably writes a terminal transfer status through the
// auto-committing store, deliberately outside the unit of work that is
// about to roll back.
func (s *TransferService) recordOutcome(ctx context.Context, transferID int64, status domain.TransferStatus) {
	if err := s.store.UpdateTransferStatus(ctx, transferID, status); err != nil {
		s.logger.Error("failed to record transfer outcome",
			"transfer_id", transferID, "status", status, "error", err)
	}
}

// sideError tags an account-resolution failure with the side of the
// transfer it belongs to.
func sideError(side, number string, err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("%s account %s: %w", side, number, domain.ErrInvalidAccount)
	}
	return err
}
