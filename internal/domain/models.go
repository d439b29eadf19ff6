package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
)

// Currency is the closed set of currencies the ledger accepts.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// Decimals returns the number of fractional digits the currency carries.
func (c Currency) Decimals() int32 {
	return 2
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	}
	return false
}

// MovementType distinguishes the two kinds of journal entries.
type MovementType string

const (
	Deposit  MovementType = "DEPOSIT"
	Withdraw MovementType = "WITHDRAW"
)

// TransferStatus is the transfer state machine. Create is the initial
// state; the other three are terminal.
type TransferStatus string

const (
	TransferCreate              TransferStatus = "CREATE"
	TransferDone                TransferStatus = "DONE"
	TransferInsufficientBalance TransferStatus = "INSUFFICIENT_BALANCE"
	TransferError               TransferStatus = "ERROR"
)

// Account holds a balance in one currency. Balance is the only field
// mutated after creation, always under the account's row lock.
type Account struct {
	ID        int64           `json:"-"`
	Number    string          `json:"account_number"`
	Status    AccountStatus   `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  Currency        `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// JournalEntry is the immutable record of one movement and the balance
// it produced. (TransactionID, Type) is unique across the journal and
// is the idempotency guard.
type JournalEntry struct {
	ID            int64           `json:"-"`
	AccountID     int64           `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	Type          MovementType    `json:"type"`
	Balance       decimal.Decimal `json:"balance_after"`
	TransferID    *int64          `json:"transfer_id,omitempty"`
	TransactionID string          `json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Signed returns the entry amount with the sign implied by its type.
func (e JournalEntry) Signed() decimal.Decimal {
	if e.Type == Withdraw {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Transfer records the intent to move money between two accounts and
// the durable outcome of the attempt.
type Transfer struct {
	ID            int64          `json:"id"`
	FromAccountID int64          `json:"from_account_id"`
	ToAccountID   int64          `json:"to_account_id"`
	Status        TransferStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}
