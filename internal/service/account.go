package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/repository"
)

// AccountService creates and reads accounts. Balances are never
// mutated here; that is the movement engine's job.
type AccountService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewAccountService(store repository.Store, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

// CreateAccount opens an ACTIVE account with a zero balance and a
// generated account number.
func (s *AccountService) CreateAccount(ctx context.Context, currency domain.Currency) (*domain.Account, error) {
	if !currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}

	account := &domain.Account{
		Number:   uuid.NewString(),
		Status:   domain.AccountActive,
		Balance:  decimal.Zero,
		Currency: currency,
	}
	if err := s.store.InsertAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "account", account.Number, "currency", currency)
	return account, nil
}

// GetAccount resolves an account by its number.
func (s *AccountService) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	return s.store.GetAccountByNumber(ctx, number)
}
