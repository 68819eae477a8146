package ledger

import "errors"

var (
	// ErrAccountNotFound indicates no account exists at the address.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrAccountExists indicates a create targeted an occupied address.
	ErrAccountExists = errors.New("ledger: account already exists")

	// ErrInsufficientFunds indicates a debit exceeds the account balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrNotSystemAccount indicates a debit from an account the system
	// program does not own.
	ErrNotSystemAccount = errors.New("ledger: debit from non-system account")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")

	// ErrEmptyChangeSet indicates a commit with nothing to apply.
	ErrEmptyChangeSet = errors.New("ledger: empty change set")

	// ErrBalanceOverflow indicates a credit would overflow the balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")
)
