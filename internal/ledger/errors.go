package ledger

import "errors"

// Domain errors. Handlers map these to HTTP statuses; anything else that
// escapes the engine is a store failure and surfaces as a 500.
var (
	ErrConflict          = errors.New("username or email already in use")
	ErrNotFound          = errors.New("not found")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrLimitExceeded     = errors.New("clicks cannot exceed assigned tasks")
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidStatus     = errors.New("invalid status value")
)
