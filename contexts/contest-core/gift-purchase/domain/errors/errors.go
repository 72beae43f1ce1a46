package errors

import "errors"

var (
	ErrInvalidPurchaseInput = errors.New("invalid purchase input")
	ErrInvalidGiftInput     = errors.New("invalid gift input")
	ErrGiftNotFound         = errors.New("gift not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	// ErrVoteAlreadyCommitted means the ledger already holds an event for the
	// trade number; reconciliation treats it as success.
	ErrVoteAlreadyCommitted = errors.New("vote already committed for trade number")
)
