package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/domain"
)

// Holding is one position valued at the current market price. When price
// resolution fails the average buy price stands in, flagged by PriceStale.
type Holding struct {
	PositionID   int64            `json:"position_id"`
	Symbol       string           `json:"symbol"`
	AssetName    string           `json:"asset_name"`
	AssetType    domain.AssetType `json:"asset_type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	AvgBuyPrice  decimal.Decimal  `json:"avg_buy_price"`
	CurrentPrice decimal.Decimal  `json:"current_price"`
	CostBasis    decimal.Decimal  `json:"cost_basis"`
	MarketValue  decimal.Decimal  `json:"market_value"`
	ProfitLoss   decimal.Decimal  `json:"profit_loss"`
	PriceStale   bool             `json:"price_stale"`
}

// Summary is a portfolio valued at current market prices
type Summary struct {
	PortfolioID    int64           `json:"portfolio_id"`
	Name           string          `json:"name"`
	CashBalance    decimal.Decimal `json:"cash_balance"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	PositionsValue decimal.Decimal `json:"positions_value"`
	TotalValue     decimal.Decimal `json:"total_value"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
	// AllocationByType maps asset type to its percentage of positions
	// value. Empty when the portfolio holds no positions.
	AllocationByType map[string]decimal.Decimal `json:"allocation_by_type"`
	Holdings         []Holding                  `json:"holdings"`
}
