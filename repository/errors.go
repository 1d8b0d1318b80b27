package repository

import "errors"

// Sentinel errors returned by the ledger repository. Services translate
// these into API error kinds; wrapped storage failures pass through as-is.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupNameTaken      = errors.New("group name already taken")
	ErrEventNameTaken      = errors.New("event name already taken")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlreadyPaid is returned when a settlement attempt finds the
	// transaction exists but is already paid. Kept distinct from
	// ErrTransactionNotFound so callers can tell a lost settlement race
	// from a key that never existed.
	ErrAlreadyPaid = errors.New("transaction already paid")
)
