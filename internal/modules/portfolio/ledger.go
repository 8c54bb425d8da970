package portfolio

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
)

// avgPricePlaces is the rounding precision for the weighted-average buy
// price. Rounding is half-up.
const avgPricePlaces = 6

// Ledger applies buy and sell deltas to positions. All methods run on the
// caller's transaction so a trade's position change commits together with
// its cash change and transaction record.
type Ledger struct {
	positions *PositionRepository
	log       zerolog.Logger
}

// NewLedger creates a position ledger
func NewLedger(positions *PositionRepository, log zerolog.Logger) *Ledger {
	return &Ledger{
		positions: positions,
		log:       log.With().Str("service", "ledger").Logger(),
	}
}

// ApplyBuy adds quantity at the given price to the (portfolio, asset)
// position, creating it when absent. An existing position's average buy
// price is re-blended as a weighted average of the old cost basis and the
// new purchase.
func (l *Ledger) ApplyBuy(q database.Queryer, portfolioID, assetID int64, quantity, price decimal.Decimal) (*Position, error) {
	if !quantity.IsPositive() {
		return nil, &domain.InvalidQuantityError{Quantity: quantity}
	}

	pos, err := l.positions.getByPortfolioAndAsset(q, portfolioID, assetID)
	if err != nil {
		return nil, err
	}

	if pos == nil {
		pos = &Position{
			PortfolioID:     portfolioID,
			AssetID:         assetID,
			Quantity:        quantity,
			AverageBuyPrice: price,
		}
		if err := l.positions.insert(q, pos); err != nil {
			return nil, err
		}

		l.log.Debug().
			Int64("portfolio_id", portfolioID).
			Int64("asset_id", assetID).
			Str("quantity", quantity.String()).
			Msg("Position opened")

		return pos, nil
	}

	oldValue := pos.Quantity.Mul(pos.AverageBuyPrice)
	newValue := quantity.Mul(price)
	totalQty := pos.Quantity.Add(quantity)

	pos.AverageBuyPrice = oldValue.Add(newValue).DivRound(totalQty, avgPricePlaces)
	pos.Quantity = totalQty

	if err := l.positions.update(q, pos); err != nil {
		return nil, err
	}

	return pos, nil
}

// ApplySell removes quantity from the position. The quantity must be
// positive and no greater than the held amount. When the sell brings the
// holding to exactly zero the position row is deleted and (nil, nil) is
// returned; a partial sell leaves the average buy price untouched.
func (l *Ledger) ApplySell(q database.Queryer, pos *Position, quantity decimal.Decimal) (*Position, error) {
	if !quantity.IsPositive() {
		return nil, &domain.InvalidQuantityError{Quantity: quantity}
	}
	if quantity.GreaterThan(pos.Quantity) {
		return nil, &domain.InsufficientQuantityError{
			Held:      pos.Quantity,
			Requested: quantity,
		}
	}

	remaining := pos.Quantity.Sub(quantity)
	if remaining.IsZero() {
		if err := l.positions.deleteByID(q, pos.ID); err != nil {
			return nil, err
		}

		l.log.Debug().
			Int64("portfolio_id", pos.PortfolioID).
			Int64("asset_id", pos.AssetID).
			Msg("Position closed")

		return nil, nil
	}

	pos.Quantity = remaining
	if err := l.positions.update(q, pos); err != nil {
		return nil, err
	}

	return pos, nil
}

// VerifyOwnership checks that the position belongs to the given portfolio
func VerifyOwnership(pos *Position, portfolioID int64) error {
	if pos.PortfolioID != portfolioID {
		return &domain.PositionMismatchError{
			PositionID:  pos.ID,
			PortfolioID: portfolioID,
		}
	}
	return nil
}
