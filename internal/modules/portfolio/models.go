package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/domain"
)

// Portfolio holds a user's cash balance and positions. Cash is mutated only
// by the trading engine's committed buys and sells; it never goes negative.
type Portfolio struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Position is a portfolio's current holding of one asset: quantity plus the
// weighted-average buy price. Unique per (portfolio, asset); deleted when a
// sell brings the quantity to exactly zero.
type Position struct {
	ID              int64           `json:"id"`
	PortfolioID     int64           `json:"portfolio_id"`
	AssetID         int64           `json:"asset_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Asset info joined on read paths
	Symbol    string           `json:"symbol"`
	AssetName string           `json:"asset_name"`
	AssetType domain.AssetType `json:"asset_type"`
}

// CostBasis returns quantity x average buy price
func (p *Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AverageBuyPrice)
}
