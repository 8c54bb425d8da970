package snapshots

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/events"
	"github.com/ColeJam13/InvestED/internal/modules/valuation"
)

// SummaryBuilder values a portfolio at current market prices
type SummaryBuilder interface {
	BuildSummary(ctx context.Context, portfolioID int64) (*valuation.Summary, error)
}

// Service captures and serves portfolio valuation snapshots
type Service struct {
	repo      *Repository
	valuation SummaryBuilder
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates a snapshot service
func NewService(repo *Repository, builder SummaryBuilder, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		valuation: builder,
		events:    eventManager,
		log:       log.With().Str("service", "snapshots").Logger(),
	}
}

// Capture values the portfolio now and stores the result
func (s *Service) Capture(ctx context.Context, portfolioID int64) (*Snapshot, error) {
	summary, err := s.valuation.BuildSummary(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		PortfolioID:      summary.PortfolioID,
		TotalValue:       summary.TotalValue,
		CashBalance:      summary.CashBalance,
		PositionsValue:   summary.PositionsValue,
		CostBasis:        summary.CostBasis,
		ProfitLoss:       summary.ProfitLoss,
		AllocationByType: summary.AllocationByType,
	}
	if err := s.repo.Create(snap); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Emit(events.SnapshotCaptured, "snapshots", map[string]interface{}{
			"snapshot_id":  snap.ID,
			"portfolio_id": snap.PortfolioID,
			"total_value":  snap.TotalValue.String(),
		})
	}

	return snap, nil
}

// History returns a portfolio's snapshots from the last N days, oldest first
func (s *Service) History(portfolioID int64, days int) ([]Snapshot, error) {
	if days <= 0 {
		days = 90
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.GetByPortfolio(portfolioID, since)
}
