// Package marketdata resolves current market prices for equity and crypto
// symbols, with a short-lived quote cache in front of the upstream sources.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/clients/coinmarketcap"
	"github.com/ColeJam13/InvestED/internal/clients/finnhub"
	"github.com/ColeJam13/InvestED/internal/domain"
)

// cryptoPrefix namespaces crypto symbols, e.g. "CRYPTO:BTC"
const cryptoPrefix = "CRYPTO:"

// StockQuoter fetches equity quotes
type StockQuoter interface {
	GetQuote(ctx context.Context, symbol string) (*finnhub.Quote, error)
}

// CryptoQuoter fetches crypto quotes
type CryptoQuoter interface {
	GetQuote(ctx context.Context, symbol string) (*coinmarketcap.Quote, error)
}

// Resolver maps a symbol to a current market price. Equity symbols go to the
// stock source; symbols with the CRYPTO: prefix go to the crypto source.
// Successful resolutions refresh the quote cache.
type Resolver struct {
	stocks StockQuoter
	crypto CryptoQuoter
	cache  *quoteCache
	log    zerolog.Logger
}

// Config holds resolver configuration
type Config struct {
	Stocks   StockQuoter
	Crypto   CryptoQuoter
	CacheTTL time.Duration
	Now      func() time.Time // Clock override for tests; defaults to time.Now
	Log      zerolog.Logger
}

// NewResolver creates a new price resolver
func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		stocks: cfg.Stocks,
		crypto: cfg.Crypto,
		cache:  newQuoteCache(cfg.CacheTTL, cfg.Now),
		log:    cfg.Log.With().Str("service", "marketdata").Logger(),
	}
}

// ResolveForTrade returns the current price for a symbol, failing closed.
// It returns *domain.InvalidPriceError when the upstream price is missing or
// non-positive and *domain.UpstreamUnavailableError when the call fails or
// times out. It never substitutes zero for a failed fetch: a trade executed
// at price zero would corrupt cost basis and cash accounting.
func (r *Resolver) ResolveForTrade(ctx context.Context, symbol string) (decimal.Decimal, error) {
	normalized := domain.NormalizeSymbol(symbol)
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("symbol cannot be empty")
	}

	if price, ok := r.cache.get(normalized); ok {
		r.log.Debug().Str("symbol", normalized).Str("price", price.String()).Msg("Quote cache hit")
		return price, nil
	}

	price, err := r.fetch(ctx, normalized)
	if err != nil {
		return decimal.Zero, err
	}

	if !price.IsPositive() {
		return decimal.Zero, &domain.InvalidPriceError{Symbol: normalized, Price: price}
	}

	r.cache.put(normalized, price)

	r.log.Debug().Str("symbol", normalized).Str("price", price.String()).Msg("Quote resolved upstream")
	return price, nil
}

// ResolveForDisplay returns the current price for a symbol, degrading to the
// given fallback (typically the position's average buy price) when resolution
// fails. The second return reports whether the price is live. Display-only:
// committed trades must use ResolveForTrade.
func (r *Resolver) ResolveForDisplay(ctx context.Context, symbol string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	price, err := r.ResolveForTrade(ctx, symbol)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("symbol", symbol).
			Str("fallback", fallback.String()).
			Msg("Price resolution failed, using fallback for display")
		return fallback, false
	}
	return price, true
}

// fetch calls the source selected by the symbol's namespace prefix
func (r *Resolver) fetch(ctx context.Context, normalized string) (decimal.Decimal, error) {
	if strings.HasPrefix(normalized, cryptoPrefix) {
		code := strings.TrimPrefix(normalized, cryptoPrefix)
		quote, err := r.crypto.GetQuote(ctx, code)
		if err != nil {
			return decimal.Zero, &domain.UpstreamUnavailableError{Symbol: normalized, Err: err}
		}
		return decimal.NewFromFloat(quote.PriceUSD), nil
	}

	quote, err := r.stocks.GetQuote(ctx, normalized)
	if err != nil {
		return decimal.Zero, &domain.UpstreamUnavailableError{Symbol: normalized, Err: err}
	}
	return decimal.NewFromFloat(quote.Current), nil
}
