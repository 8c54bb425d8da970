package assets

import (
	"fmt"
	"strings"
	"time"

	"github.com/ColeJam13/InvestED/internal/domain"
)

// Asset is a tradable instrument, unique on (symbol, asset type).
// Created lazily by the catalog on first trade.
type Asset struct {
	ID        int64            `json:"id"`
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name"`
	AssetType domain.AssetType `json:"asset_type"`
	CreatedAt time.Time        `json:"created_at"`
}

// Validate validates asset data and normalizes the symbol
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Symbol) == "" {
		return fmt.Errorf("symbol cannot be empty")
	}

	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if !a.AssetType.IsValid() {
		return fmt.Errorf("invalid asset type: %s", a.AssetType)
	}

	a.Symbol = domain.NormalizeSymbol(a.Symbol)

	return nil
}
