package portfolio

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/events"
)

// Service handles portfolio lifecycle operations
type Service struct {
	portfolios   *PortfolioRepository
	positions    *PositionRepository
	events       *events.Manager
	startingCash decimal.Decimal
	log          zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	portfolios *PortfolioRepository,
	positions *PositionRepository,
	eventManager *events.Manager,
	startingCash decimal.Decimal,
	log zerolog.Logger,
) *Service {
	return &Service{
		portfolios:   portfolios,
		positions:    positions,
		events:       eventManager,
		startingCash: startingCash,
		log:          log.With().Str("service", "portfolio").Logger(),
	}
}

// Create opens a new portfolio seeded with the configured starting cash
func (s *Service) Create(userID int64, name string) (*Portfolio, error) {
	pf, err := s.portfolios.Create(userID, name, s.startingCash)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Emit(events.PortfolioCreated, "portfolio", map[string]interface{}{
			"portfolio_id":  pf.ID,
			"user_id":       pf.UserID,
			"starting_cash": pf.CashBalance.String(),
		})
	}

	return pf, nil
}

// Get returns a portfolio by ID
func (s *Service) Get(id int64) (*Portfolio, error) {
	return s.portfolios.GetByID(id)
}

// ListByUser returns a user's portfolios
func (s *Service) ListByUser(userID int64) ([]Portfolio, error) {
	return s.portfolios.GetByUser(userID)
}

// Rename updates a portfolio's display name
func (s *Service) Rename(id int64, name string) (*Portfolio, error) {
	if err := s.portfolios.Rename(id, name); err != nil {
		return nil, err
	}
	return s.portfolios.GetByID(id)
}

// ListPositions returns a portfolio's open positions with asset info
func (s *Service) ListPositions(portfolioID int64) ([]Position, error) {
	if _, err := s.portfolios.GetByID(portfolioID); err != nil {
		return nil, err
	}
	return s.positions.GetByPortfolio(portfolioID)
}
