/*
errors.go - Centralized error types for the finance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify errors with errors.Is() or the helpers at the bottom.

ERROR CATEGORIES:
  1. Not found      - referenced payee, payee account or bank account is absent
  2. Client errors  - invalid amounts, terms, transfers, interest types
  3. Store errors   - anything else; wrapped with context by the store

HTTP MAPPING (api/handlers.go):
  IsNotFound    -> 404
  IsClientError -> 400
  otherwise     -> 500

SEE ALSO:
  - service.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPayeeNotFound is returned when a referenced payee doesn't exist.
	ErrPayeeNotFound = errors.New("payee not found")

	// ErrPayeeAccountNotFound is returned when a referenced payee account doesn't exist.
	// Payment intake checks this before the allocator ever runs.
	ErrPayeeAccountNotFound = errors.New("payee account not found")

	// ErrAccountNotFound is returned when a referenced bank account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidTerm is returned when an amortization schedule is requested
	// for an account without a loan term, or with a negative term.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrNegativePayment is returned for payments below zero. Refunds and
	// reversals are not modelled.
	ErrNegativePayment = errors.New("payment amount must not be negative")

	// ErrInvalidAmount is returned for deposits and transfers that are not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrSameAccount is returned when a transfer names the same account twice.
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrInsufficientFunds is returned when a transfer exceeds the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownInterestType is returned for interest types outside the closed set.
	ErrUnknownInterestType = errors.New("unknown interest type")

	// ErrInvalidInput covers remaining field validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError provides details about a transfer shortfall.
type InsufficientFundsError struct {
	AccountID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: available %s, requested %s",
		e.AccountID, e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// UnknownInterestTypeError names the rejected value.
type UnknownInterestTypeError struct {
	Value string
}

func (e *UnknownInterestTypeError) Error() string {
	return fmt.Sprintf("unknown interest type %q (want none, pif, compound or loan)", e.Value)
}

func (e *UnknownInterestTypeError) Unwrap() error {
	return ErrUnknownInterestType
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTerm) ||
		errors.Is(err, ErrNegativePayment) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrSameAccount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrUnknownInterestType) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPayeeNotFound) ||
		errors.Is(err, ErrPayeeAccountNotFound) ||
		errors.Is(err, ErrAccountNotFound)
}
