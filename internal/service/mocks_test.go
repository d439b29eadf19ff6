package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/repository"
)

// mockRepository is a testify mock of the store contract.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockRepository) InsertAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockRepository) LockAccountForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockRepository) UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error {
	return m.Called(ctx, number, balance).Error(0)
}

func (m *mockRepository) InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) JournalEntryExists(ctx context.Context, transactionID string, movementType domain.MovementType) (bool, error) {
	args := m.Called(ctx, transactionID, movementType)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) ListJournalEntries(ctx context.Context, accountID int64) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *mockRepository) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *mockRepository) UpdateTransferStatus(ctx context.Context, id int64, status domain.TransferStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockRepository) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// mockStore routes direct (auto-commit) calls to the embedded
// repository and unit-of-work calls to tx, so tests can tell the two
// channels apart.
type mockStore struct {
	mockRepository
	tx       *mockRepository
	beginErr error
}

func newMockStore() *mockStore {
	return &mockStore{tx: &mockRepository{}}
}

func (s *mockStore) WithinTx(ctx context.Context, fn func(r repository.Repository) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	return fn(s.tx)
}

// decimalEq matches a decimal argument by value rather than by internal
// representation.
func decimalEq(want string) interface{} {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expected) })
}
