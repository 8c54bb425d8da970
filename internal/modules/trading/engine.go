package trading

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
	"github.com/ColeJam13/InvestED/internal/events"
	"github.com/ColeJam13/InvestED/internal/modules/assets"
	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
)

const cryptoPrefix = "CRYPTO:"

// PriceResolver resolves the canonical execution price for a symbol
type PriceResolver interface {
	ResolveForTrade(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// AssetCatalog provides get-or-create asset lookup
type AssetCatalog interface {
	GetOrCreate(q database.Queryer, symbol, name string, assetType domain.AssetType) (*assets.Asset, error)
}

// PortfolioStore provides portfolio reads and cash updates
type PortfolioStore interface {
	GetByID(id int64) (*portfolio.Portfolio, error)
	UpdateCashBalance(q database.Queryer, id int64, balance decimal.Decimal) error
}

// PositionStore provides position reads
type PositionStore interface {
	GetByID(id int64) (*portfolio.Position, error)
}

// PositionLedger applies buy and sell deltas to positions
type PositionLedger interface {
	ApplyBuy(q database.Queryer, portfolioID, assetID int64, quantity, price decimal.Decimal) (*portfolio.Position, error)
	ApplySell(q database.Queryer, pos *portfolio.Position, quantity decimal.Decimal) (*portfolio.Position, error)
}

// Engine executes buys and sells. Each trade commits atomically: the
// position change, the cash change, and the transaction record all land in
// one database transaction or none of them do. Trades on the same portfolio
// are serialized; the execution price always comes from the price resolver,
// never from the client.
type Engine struct {
	db           *sql.DB
	prices       PriceResolver
	catalog      AssetCatalog
	portfolios   PortfolioStore
	positions    PositionStore
	ledger       PositionLedger
	transactions *TransactionRepository
	locks        *portfolioLocks
	events       *events.Manager
	log          zerolog.Logger
}

// EngineConfig wires the engine's collaborators
type EngineConfig struct {
	DB           *sql.DB
	Prices       PriceResolver
	Catalog      AssetCatalog
	Portfolios   PortfolioStore
	Positions    PositionStore
	Ledger       PositionLedger
	Transactions *TransactionRepository
	Events       *events.Manager
	Log          zerolog.Logger
}

// NewEngine creates a trading engine
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		db:           cfg.DB,
		prices:       cfg.Prices,
		catalog:      cfg.Catalog,
		portfolios:   cfg.Portfolios,
		positions:    cfg.Positions,
		ledger:       cfg.Ledger,
		transactions: cfg.Transactions,
		locks:        newPortfolioLocks(),
		events:       cfg.Events,
		log:          cfg.Log.With().Str("service", "trading").Logger(),
	}
}

// Buy purchases quantity of the requested asset for the portfolio. The
// asset is created in the catalog on first trade. Returns the committed
// transaction, the updated position, and the new cash balance.
func (e *Engine) Buy(ctx context.Context, portfolioID int64, req BuyRequest) (*TradeResult, error) {
	if !req.Quantity.IsPositive() {
		return nil, &domain.InvalidQuantityError{Quantity: req.Quantity}
	}

	assetType, err := domain.AssetTypeFromString(req.AssetType)
	if err != nil {
		return nil, err
	}

	symbol := qualifySymbol(req.Symbol, assetType)
	name := strings.TrimSpace(req.AssetName)
	if name == "" {
		name = strings.TrimPrefix(symbol, cryptoPrefix)
	}

	// Existence check before the expensive price fetch
	if _, err := e.portfolios.GetByID(portfolioID); err != nil {
		return nil, err
	}

	price, err := e.prices.ResolveForTrade(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.lock(portfolioID)
	defer unlock()

	// Re-read inside the lock so the cash check sees the latest committed trade
	pf, err := e.portfolios.GetByID(portfolioID)
	if err != nil {
		return nil, err
	}

	totalCost := req.Quantity.Mul(price)
	if pf.CashBalance.LessThan(totalCost) {
		return nil, &domain.InsufficientFundsError{
			Available: pf.CashBalance,
			Required:  totalCost,
		}
	}

	var result TradeResult
	err = database.WithTransaction(e.db, func(tx *sql.Tx) error {
		asset, err := e.catalog.GetOrCreate(tx, symbol, name, assetType)
		if err != nil {
			return err
		}

		pos, err := e.ledger.ApplyBuy(tx, portfolioID, asset.ID, req.Quantity, price)
		if err != nil {
			return err
		}
		// A freshly opened position has no joined asset info yet
		pos.Symbol = asset.Symbol
		pos.AssetName = asset.Name
		pos.AssetType = asset.AssetType

		newBalance := pf.CashBalance.Sub(totalCost)
		if err := e.portfolios.UpdateCashBalance(tx, portfolioID, newBalance); err != nil {
			return err
		}

		record, err := e.transactions.Create(tx, portfolioID, asset.ID, domain.TransactionTypeBuy, req.Quantity, price)
		if err != nil {
			return err
		}

		result = TradeResult{
			Transaction: record,
			Position:    pos,
			CashBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emitTrade(&result, symbol)
	return &result, nil
}

// Sell liquidates quantity of a held position. Selling the full held
// quantity closes the position; the result's position is nil in that case.
func (e *Engine) Sell(ctx context.Context, portfolioID int64, req SellRequest) (*TradeResult, error) {
	if !req.Quantity.IsPositive() {
		return nil, &domain.InvalidQuantityError{Quantity: req.Quantity}
	}

	if _, err := e.portfolios.GetByID(portfolioID); err != nil {
		return nil, err
	}

	pos, err := e.positions.GetByID(req.PositionID)
	if err != nil {
		return nil, err
	}
	if err := portfolio.VerifyOwnership(pos, portfolioID); err != nil {
		return nil, err
	}

	unlock := e.locks.lock(portfolioID)
	defer unlock()

	// Re-read inside the lock: a concurrent sell may have shrunk or closed
	// the position while we waited
	pos, err = e.positions.GetByID(req.PositionID)
	if err != nil {
		return nil, err
	}

	if req.Quantity.GreaterThan(pos.Quantity) {
		return nil, &domain.InsufficientQuantityError{
			Held:      pos.Quantity,
			Requested: req.Quantity,
		}
	}

	price, err := e.prices.ResolveForTrade(ctx, pos.Symbol)
	if err != nil {
		return nil, err
	}

	pf, err := e.portfolios.GetByID(portfolioID)
	if err != nil {
		return nil, err
	}

	proceeds := req.Quantity.Mul(price)

	var result TradeResult
	err = database.WithTransaction(e.db, func(tx *sql.Tx) error {
		remaining, err := e.ledger.ApplySell(tx, pos, req.Quantity)
		if err != nil {
			return err
		}

		newBalance := pf.CashBalance.Add(proceeds)
		if err := e.portfolios.UpdateCashBalance(tx, portfolioID, newBalance); err != nil {
			return err
		}

		record, err := e.transactions.Create(tx, portfolioID, pos.AssetID, domain.TransactionTypeSell, req.Quantity, price)
		if err != nil {
			return err
		}

		result = TradeResult{
			Transaction: record,
			Position:    remaining,
			CashBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emitTrade(&result, pos.Symbol)
	if result.Position == nil && e.events != nil {
		e.events.Emit(events.PositionClosed, "trading", map[string]interface{}{
			"portfolio_id": portfolioID,
			"symbol":       pos.Symbol,
		})
	}
	return &result, nil
}

// History returns a portfolio's transactions, newest first
func (e *Engine) History(portfolioID int64, limit int) ([]Transaction, error) {
	if _, err := e.portfolios.GetByID(portfolioID); err != nil {
		return nil, err
	}
	return e.transactions.GetByPortfolio(portfolioID, limit)
}

func (e *Engine) emitTrade(result *TradeResult, symbol string) {
	e.log.Info().
		Int64("portfolio_id", result.Transaction.PortfolioID).
		Str("type", string(result.Transaction.Type)).
		Str("symbol", symbol).
		Str("quantity", result.Transaction.Quantity.String()).
		Str("price", result.Transaction.PriceAtTransaction.String()).
		Str("total", result.Transaction.TotalAmount.String()).
		Msg("Trade executed")

	if e.events != nil {
		e.events.Emit(events.TradeExecuted, "trading", map[string]interface{}{
			"transaction_id": result.Transaction.ID,
			"portfolio_id":   result.Transaction.PortfolioID,
			"type":           string(result.Transaction.Type),
			"symbol":         symbol,
			"quantity":       result.Transaction.Quantity.String(),
			"price":          result.Transaction.PriceAtTransaction.String(),
			"total_amount":   result.Transaction.TotalAmount.String(),
		})
	}
}

// qualifySymbol normalizes the symbol and namespaces crypto assets so
// later price lookups route to the right source
func qualifySymbol(symbol string, assetType domain.AssetType) string {
	normalized := domain.NormalizeSymbol(symbol)
	if assetType == domain.AssetTypeCrypto && !strings.HasPrefix(normalized, cryptoPrefix) {
		return cryptoPrefix + normalized
	}
	return normalized
}
