package domain

import "errors"

// Business-rule failures surfaced to callers. All of them leave durable
// state untouched, except that a failed transfer still records its
// terminal status out of band.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrTransferNotFound     = errors.New("transfer not found")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrSameAccount          = errors.New("source and destination accounts are the same")
	ErrIncompatibleCurrency = errors.New("accounts have incompatible currencies")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDuplicateMovement    = errors.New("duplicate transaction id for movement type")
	ErrInvalidAmount        = errors.New("amount must be a positive decimal within currency precision")
	ErrInvalidCurrency      = errors.New("unsupported currency")
)
