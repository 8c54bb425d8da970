package valuation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
)

const allocationPlaces = 6

// DisplayPriceResolver resolves prices for valuation, degrading to the
// fallback rather than failing. Trading never uses this path.
type DisplayPriceResolver interface {
	ResolveForDisplay(ctx context.Context, symbol string, fallback decimal.Decimal) (decimal.Decimal, bool)
}

// PortfolioReader provides the portfolio and position reads valuation needs
type PortfolioReader interface {
	Get(id int64) (*portfolio.Portfolio, error)
	ListPositions(portfolioID int64) ([]portfolio.Position, error)
}

// Service values portfolios at current market prices
type Service struct {
	portfolios PortfolioReader
	prices     DisplayPriceResolver
	log        zerolog.Logger
}

// NewService creates a valuation service
func NewService(portfolios PortfolioReader, prices DisplayPriceResolver, log zerolog.Logger) *Service {
	return &Service{
		portfolios: portfolios,
		prices:     prices,
		log:        log.With().Str("service", "valuation").Logger(),
	}
}

// BuildSummary values every position at its current price and aggregates
// cost basis, market value, profit and loss, and the allocation split by
// asset type. Positions whose price cannot be resolved are valued at their
// average buy price and flagged stale instead of failing the whole summary.
func (s *Service) BuildSummary(ctx context.Context, portfolioID int64) (*Summary, error) {
	pf, err := s.portfolios.Get(portfolioID)
	if err != nil {
		return nil, err
	}

	positions, err := s.portfolios.ListPositions(portfolioID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		PortfolioID:      pf.ID,
		Name:             pf.Name,
		CashBalance:      pf.CashBalance,
		AllocationByType: make(map[string]decimal.Decimal),
		Holdings:         make([]Holding, 0, len(positions)),
	}

	valueByType := make(map[string]decimal.Decimal)
	for _, pos := range positions {
		holding := s.valuePosition(ctx, pos)
		summary.Holdings = append(summary.Holdings, holding)

		summary.CostBasis = summary.CostBasis.Add(holding.CostBasis)
		summary.PositionsValue = summary.PositionsValue.Add(holding.MarketValue)

		key := string(holding.AssetType)
		valueByType[key] = valueByType[key].Add(holding.MarketValue)
	}

	summary.TotalValue = summary.CashBalance.Add(summary.PositionsValue)
	summary.ProfitLoss = summary.PositionsValue.Sub(summary.CostBasis)

	// Percentages only make sense against a positive positions value
	if summary.PositionsValue.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for assetType, value := range valueByType {
			summary.AllocationByType[assetType] = value.Mul(hundred).DivRound(summary.PositionsValue, allocationPlaces)
		}
	}

	return summary, nil
}

func (s *Service) valuePosition(ctx context.Context, pos portfolio.Position) Holding {
	current, live := s.prices.ResolveForDisplay(ctx, pos.Symbol, pos.AverageBuyPrice)

	costBasis := pos.CostBasis()
	marketValue := pos.Quantity.Mul(current)

	return Holding{
		PositionID:   pos.ID,
		Symbol:       pos.Symbol,
		AssetName:    pos.AssetName,
		AssetType:    pos.AssetType,
		Quantity:     pos.Quantity,
		AvgBuyPrice:  pos.AverageBuyPrice,
		CurrentPrice: current,
		CostBasis:    costBasis,
		MarketValue:  marketValue,
		ProfitLoss:   marketValue.Sub(costBasis),
		PriceStale:   !live,
	}
}
