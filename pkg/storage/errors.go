package storage

import "errors"

// ErrInsufficientFunds is returned when a debit or lock exceeds the wallet's
// available balance and no negative-balance policy applies.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidStateTransition is returned when an operation is attempted
// against a record in the wrong state, e.g. releasing an expired lock or
// resolving a dispute twice with different outcomes.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrInvalidSplit is returned when a partial-release split does not sum to
// the contested lock's amount.
var ErrInvalidSplit = errors.New("partial release amounts must sum to the lock amount")

// ErrLimitExceeded is returned when a withdrawal would exceed the wallet's
// tier-derived daily limit.
var ErrLimitExceeded = errors.New("withdrawal exceeds daily limit")

// ErrNotFound is returned when a wallet, lock, dispute, settlement or
// withdrawal id is unknown.
var ErrNotFound = errors.New("not found")

// ErrIdempotencyMismatch is returned when an idempotency key is replayed
// with a different request body.
var ErrIdempotencyMismatch = errors.New("idempotency key replayed with different request")
