package snapshots

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time record of a portfolio's valuation, captured
// by the daily job or on demand. The allocation split is stored as JSON so
// historical charts can be rebuilt without re-resolving old prices.
type Snapshot struct {
	ID               int64                      `json:"id"`
	PortfolioID      int64                      `json:"portfolio_id"`
	TotalValue       decimal.Decimal            `json:"total_value"`
	CashBalance      decimal.Decimal            `json:"cash_balance"`
	PositionsValue   decimal.Decimal            `json:"positions_value"`
	CostBasis        decimal.Decimal            `json:"cost_basis"`
	ProfitLoss       decimal.Decimal            `json:"profit_loss"`
	AllocationByType map[string]decimal.Decimal `json:"allocation_by_type"`
	CapturedAt       time.Time                  `json:"captured_at"`
}
