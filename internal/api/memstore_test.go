package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/repository"
)

// ledgerState is the in-memory backing for memStore.
type ledgerState struct {
	accounts       map[string]*domain.Account
	entries        []domain.JournalEntry
	transfers      map[int64]*domain.Transfer
	nextAccountID  int64
	nextEntryID    int64
	nextTransferID int64
}

func (s *ledgerState) clone() *ledgerState {
	c := &ledgerState{
		accounts:       make(map[string]*domain.Account, len(s.accounts)),
		entries:        append([]domain.JournalEntry(nil), s.entries...),
		transfers:      make(map[int64]*domain.Transfer, len(s.transfers)),
		nextAccountID:  s.nextAccountID,
		nextEntryID:    s.nextEntryID,
		nextTransferID: s.nextTransferID,
	}
	for k, v := range s.accounts {
		dup := *v
		c.accounts[k] = &dup
	}
	for k, v := range s.transfers {
		dup := *v
		c.transfers[k] = &dup
	}
	return c
}

// memStore is an in-memory repository.Store for handler tests. WithinTx
// runs against a snapshot that only replaces the live state on success,
// mirroring transactional rollback; direct calls hit the live state and
// therefore survive a rolled-back unit of work.
type memStore struct {
	state *ledgerState
}

func newMemStore() *memStore {
	return &memStore{state: &ledgerState{
		accounts:  map[string]*domain.Account{},
		transfers: map[int64]*domain.Transfer{},
	}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(r repository.Repository) error) error {
	work := &memStore{state: m.state.clone()}
	if err := fn(work); err != nil {
		return err
	}
	*m.state = *work.state
	return nil
}

func (m *memStore) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, ok := m.state.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	dup := *account
	return &dup, nil
}

func (m *memStore) InsertAccount(ctx context.Context, account *domain.Account) error {
	m.state.nextAccountID++
	account.ID = m.state.nextAccountID
	account.CreatedAt = time.Now()
	stored := *account
	m.state.accounts[account.Number] = &stored
	return nil
}

func (m *memStore) LockAccountForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	account, ok := m.state.accounts[number]
	if !ok {
		return nil, domain.ErrInvalidAccount
	}
	dup := *account
	return &dup, nil
}

func (m *memStore) UpdateAccountBalance(ctx context.Context, number string, balance decimal.Decimal) error {
	account, ok := m.state.accounts[number]
	if !ok {
		return domain.ErrInvalidAccount
	}
	account.Balance = balance
	return nil
}

func (m *memStore) InsertJournalEntry(ctx context.Context, entry *domain.JournalEntry) error {
	for _, existing := range m.state.entries {
		if existing.TransactionID == entry.TransactionID && existing.Type == entry.Type {
			return domain.ErrDuplicateMovement
		}
	}
	m.state.nextEntryID++
	entry.ID = m.state.nextEntryID
	entry.CreatedAt = time.Now()
	m.state.entries = append(m.state.entries, *entry)
	return nil
}

func (m *memStore) JournalEntryExists(ctx context.Context, transactionID string, movementType domain.MovementType) (bool, error) {
	for _, existing := range m.state.entries {
		if existing.TransactionID == transactionID && existing.Type == movementType {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListJournalEntries(ctx context.Context, accountID int64) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for _, entry := range m.state.entries {
		if entry.AccountID == accountID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *memStore) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	m.state.nextTransferID++
	transfer.ID = m.state.nextTransferID
	transfer.CreatedAt = time.Now()
	stored := *transfer
	m.state.transfers[transfer.ID] = &stored
	return nil
}

func (m *memStore) UpdateTransferStatus(ctx context.Context, id int64, status domain.TransferStatus) error {
	transfer, ok := m.state.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	transfer.Status = status
	return nil
}

func (m *memStore) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	transfer, ok := m.state.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	dup := *transfer
	return &dup, nil
}
