package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
)

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
}

// CreateAccountResponse returns the generated account number.
type CreateAccountResponse struct {
	AccountNumber string          `json:"account_number"`
	Currency      domain.Currency `json:"currency"`
}

// MovementRequest is the payload for a deposit or a withdraw. Amount
// travels as a string so the boundary never loses decimal precision.
// TransactionID is optional; a missing key is generated server side.
type MovementRequest struct {
	AccountNumber string `json:"account_number" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	TransactionID string `json:"transaction_id"`
}

// MovementResponse echoes the idempotency key the movement was applied
// under.
type MovementResponse struct {
	TransactionID string `json:"transaction_id"`
}

// TransferRequest is the payload for moving money between two accounts.
type TransferRequest struct {
	FromAccount   string `json:"from_account" validate:"required"`
	ToAccount     string `json:"to_account" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	TransactionID string `json:"transaction_id"`
}

// AccountResponse is the read model for a single account.
type AccountResponse struct {
	AccountNumber string               `json:"account_number"`
	Status        domain.AccountStatus `json:"status"`
	Balance       decimal.Decimal      `json:"balance"`
	Currency      domain.Currency      `json:"currency"`
	CreatedAt     time.Time            `json:"created_at"`
}

// TransactionListResponse wraps an account's journal, oldest first.
type TransactionListResponse struct {
	Transactions []domain.JournalEntry `json:"transactions"`
}
