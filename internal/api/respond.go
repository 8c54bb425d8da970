// Package api holds shared HTTP response helpers so every module handler
// maps domain errors to status codes the same way.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/domain"
)

// WriteJSON writes data as a JSON response
func WriteJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes an error message as a JSON response
func WriteError(w http.ResponseWriter, log zerolog.Logger, status int, message string) {
	WriteJSON(w, log, status, map[string]string{"error": message})
}

// WriteDomainError maps a domain error to its HTTP status and writes it
func WriteDomainError(w http.ResponseWriter, log zerolog.Logger, err error) {
	WriteError(w, log, StatusFor(err), err.Error())
}

// StatusFor maps domain errors to HTTP status codes. Validation failures
// are 400, missing records 404, ownership mismatches 409, and price
// resolution failures 502 since the fault lies upstream.
func StatusFor(err error) int {
	var invalidQty *domain.InvalidQuantityError
	var insufficientFunds *domain.InsufficientFundsError
	var insufficientQty *domain.InsufficientQuantityError
	var mismatch *domain.PositionMismatchError
	var invalidPrice *domain.InvalidPriceError
	var upstream *domain.UpstreamUnavailableError

	switch {
	case errors.As(err, &invalidQty),
		errors.As(err, &insufficientFunds),
		errors.As(err, &insufficientQty),
		errors.Is(err, domain.ErrInvalidAssetType),
		errors.Is(err, domain.ErrInvalidTransactionType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPortfolioNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.As(err, &mismatch):
		return http.StatusConflict
	case errors.As(err, &invalidPrice), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
