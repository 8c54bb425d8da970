package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Not-found errors. Checked with errors.Is at the HTTP boundary.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrAssetNotFound     = errors.New("asset not found")
)

// InvalidQuantityError indicates a non-positive trade quantity.
type InvalidQuantityError struct {
	Quantity decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than zero, got %s", e.Quantity)
}

// InsufficientFundsError indicates a buy whose total cost exceeds the
// portfolio's cash balance. No mutation occurs.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, required %s", e.Available, e.Required)
}

// InsufficientQuantityError indicates a sell larger than the held quantity.
type InsufficientQuantityError struct {
	Held      decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: held %s, requested %s", e.Held, e.Requested)
}

// PositionMismatchError indicates a position that does not belong to the
// portfolio named in the request.
type PositionMismatchError struct {
	PositionID  int64
	PortfolioID int64
}

func (e *PositionMismatchError) Error() string {
	return fmt.Sprintf("position %d does not belong to portfolio %d", e.PositionID, e.PortfolioID)
}

// InvalidPriceError indicates an upstream quote with a missing or
// non-positive price. Callers must never treat this as price zero.
type InvalidPriceError struct {
	Symbol string
	Price  decimal.Decimal
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid upstream price for %s: %s", e.Symbol, e.Price)
}

// UpstreamUnavailableError indicates a failed or timed-out market data call.
// The trading path fails closed on this error.
type UpstreamUnavailableError struct {
	Symbol string
	Err    error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable for %s: %v", e.Symbol, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}
