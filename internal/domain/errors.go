package domain

import "errors"

var (
	// ErrInvalidActivityPayload indicates a malformed, incomplete, or negative submission.
	ErrInvalidActivityPayload = errors.New("invalid activity payload")
	// ErrLedgerApplyFailed indicates the projection update could not be committed.
	ErrLedgerApplyFailed = errors.New("ledger entry could not be applied")
	// ErrAccountNotFound is returned when no projection exists for a user.
	ErrAccountNotFound = errors.New("account projection not found")
)
