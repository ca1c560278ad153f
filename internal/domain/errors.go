package domain

import "errors"

var (
	ErrInvalidEventKind     = errors.New("invalid event kind")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountLocked        = errors.New("account locked")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrClientMismatch       = errors.New("transaction belongs to another client")
	ErrAlreadyDisputed      = errors.New("transaction already disputed")
	ErrNotDisputed          = errors.New("transaction not disputed")
)
