// Package domain holds shared value types and the error taxonomy used
// across the trading, portfolio, and valuation modules.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Parse failures for enum-like values. Mapped to 400 at the HTTP boundary.
var (
	ErrInvalidAssetType       = errors.New("invalid asset type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// AssetType classifies a tradable instrument.
type AssetType string

const (
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeETF    AssetType = "ETF"
	AssetTypeCrypto AssetType = "CRYPTO"
)

// IsValid checks if the asset type is one of the known values.
func (t AssetType) IsValid() bool {
	return t == AssetTypeStock || t == AssetTypeETF || t == AssetTypeCrypto
}

// AssetTypeFromString parses an asset type (case-insensitive).
func AssetTypeFromString(value string) (AssetType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "STOCK":
		return AssetTypeStock, nil
	case "ETF":
		return AssetTypeETF, nil
	case "CRYPTO":
		return AssetTypeCrypto, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidAssetType, value)
	}
}

// TransactionType represents the trade direction (BUY or SELL).
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// IsValid checks if the transaction type is valid.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeBuy || t == TransactionTypeSell
}

// TransactionTypeFromString parses a transaction type (case-insensitive).
func TransactionTypeFromString(value string) (TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "BUY":
		return TransactionTypeBuy, nil
	case "SELL":
		return TransactionTypeSell, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTransactionType, value)
	}
}

// NormalizeSymbol trims whitespace and uppercases a ticker or crypto code.
// The CRYPTO: namespace prefix is preserved as part of the symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
