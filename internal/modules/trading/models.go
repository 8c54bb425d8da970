package trading

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/domain"
	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
)

// Transaction is one committed trade. Rows are append-only: nothing in the
// system updates or deletes them after the commit.
type Transaction struct {
	ID                 int64                  `json:"id"`
	PortfolioID        int64                  `json:"portfolio_id"`
	AssetID            int64                  `json:"asset_id"`
	Type               domain.TransactionType `json:"type"`
	Quantity           decimal.Decimal        `json:"quantity"`
	PriceAtTransaction decimal.Decimal        `json:"price_at_transaction"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	TransactionDate    time.Time              `json:"transaction_date"`

	// Asset info joined on read paths
	Symbol    string           `json:"symbol"`
	AssetName string           `json:"asset_name"`
	AssetType domain.AssetType `json:"asset_type"`
}

// BuyRequest is the payload for executing a buy. The price is always
// resolved server side; a client-supplied price is never accepted.
type BuyRequest struct {
	Symbol    string          `json:"symbol"`
	AssetName string          `json:"asset_name"`
	AssetType string          `json:"asset_type"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SellRequest is the payload for executing a sell against a held position
type SellRequest struct {
	PositionID int64           `json:"position_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// TradeResult is returned after a committed trade
type TradeResult struct {
	Transaction *Transaction    `json:"transaction"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	// Position is nil when a sell closed the position entirely
	Position *portfolio.Position `json:"position,omitempty"`
}
