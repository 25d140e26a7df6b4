package ledger

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable class of a trade failure, surfaced as-is in
// API responses.
type Kind string

const (
	KindInsufficientFunds  Kind = "InsufficientFunds"
	KindInsufficientShares Kind = "InsufficientShares"
	KindInvalidInput       Kind = "InvalidInput"
	KindStorageFailure     Kind = "StorageFailure"
)

type TradeError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *TradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TradeError) Unwrap() error { return e.Err }

// Business reports whether the failure is an expected user-facing outcome
// rather than an operational problem.
func (e *TradeError) Business() bool {
	return e.Kind == KindInsufficientFunds || e.Kind == KindInsufficientShares || e.Kind == KindInvalidInput
}

func insufficientFunds() *TradeError {
	return &TradeError{Kind: KindInsufficientFunds, Msg: "insufficient funds"}
}

func insufficientShares() *TradeError {
	return &TradeError{Kind: KindInsufficientShares, Msg: "insufficient shares to sell"}
}

func invalidInput(msg string) *TradeError {
	return &TradeError{Kind: KindInvalidInput, Msg: msg}
}

func storageFailure(msg string, err error) *TradeError {
	return &TradeError{Kind: KindStorageFailure, Msg: msg, Err: err}
}

// AsTradeError unwraps err into a *TradeError when one is present.
func AsTradeError(err error) (*TradeError, bool) {
	var te *TradeError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
