package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound     = errors.New("auction item not found")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAuctionClosed    = errors.New("auction has ended")
	ErrSelfBid          = errors.New("seller cannot bid on own item")
	ErrInvalidAmount    = errors.New("bid amount must be greater than zero")
	// ErrContention means the optimistic-concurrency retry budget was exhausted,
	// the whole operation may be retried by the caller
	ErrContention = errors.New("too many concurrent bids, try again")
	// ErrPreconditionFailed is returned by conditional repository writes when the
	// stored value no longer matches the expected one
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrLedgerInconsistency means the item summary was updated but the ledger
	// append failed, leaving a durable mismatch between the two stores. Fatal,
	// must be logged for reconciliation, never swallowed
	ErrLedgerInconsistency = errors.New("bid ledger append failed after item update")

	ErrAccessDenied = errors.New("access denied")
	ErrItemNotOpen  = errors.New("auction has ended or been cancelled")
	ErrValidation   = errors.New("validation failed")
)

// BidTooLowError carries the computed floor so the caller can retry with a
// corrected amount
type BidTooLowError struct {
	Minimum float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be at least %.2f", e.Minimum)
}
