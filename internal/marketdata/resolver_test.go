package marketdata

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeJam13/InvestED/internal/clients/coinmarketcap"
	"github.com/ColeJam13/InvestED/internal/clients/finnhub"
	"github.com/ColeJam13/InvestED/internal/domain"
)

// fakeStockSource is a scripted stock quoter
type fakeStockSource struct {
	price float64
	err   error
	calls int
}

func (f *fakeStockSource) GetQuote(ctx context.Context, symbol string) (*finnhub.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &finnhub.Quote{Current: f.price}, nil
}

// fakeCryptoSource is a scripted crypto quoter
type fakeCryptoSource struct {
	price float64
	err   error
	calls int
}

func (f *fakeCryptoSource) GetQuote(ctx context.Context, symbol string) (*coinmarketcap.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &coinmarketcap.Quote{PriceUSD: f.price}, nil
}

// fakeClock is an adjustable clock for cache freshness tests
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestResolver(stocks StockQuoter, crypto CryptoQuoter, clock *fakeClock) *Resolver {
	return NewResolver(Config{
		Stocks:   stocks,
		Crypto:   crypto,
		CacheTTL: 60 * time.Second,
		Now:      clock.Now,
		Log:      zerolog.Nop(),
	})
}

func TestResolveForTrade_Stock(t *testing.T) {
	stocks := &fakeStockSource{price: 190.00}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	price, err := resolver.ResolveForTrade(context.Background(), "aapl ")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(190.00)))
	assert.Equal(t, 1, stocks.calls)
}

func TestResolveForTrade_CryptoPrefix(t *testing.T) {
	stocks := &fakeStockSource{price: 190.00}
	crypto := &fakeCryptoSource{price: 64000.50}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, crypto, clock)

	price, err := resolver.ResolveForTrade(context.Background(), "CRYPTO:btc")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(64000.50)))
	assert.Equal(t, 1, crypto.calls)
	assert.Equal(t, 0, stocks.calls)
}

func TestResolveForTrade_CacheHitWithinWindow(t *testing.T) {
	stocks := &fakeStockSource{price: 100.00}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	_, err := resolver.ResolveForTrade(context.Background(), "MSFT")
	require.NoError(t, err)

	clock.Advance(30 * time.Second)

	price, err := resolver.ResolveForTrade(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(100.00)))
	assert.Equal(t, 1, stocks.calls, "second resolution should be served from cache")
}

func TestResolveForTrade_CacheExpiry(t *testing.T) {
	stocks := &fakeStockSource{price: 100.00}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	_, err := resolver.ResolveForTrade(context.Background(), "MSFT")
	require.NoError(t, err)

	clock.Advance(61 * time.Second)

	stocks.price = 105.00
	price, err := resolver.ResolveForTrade(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(105.00)))
	assert.Equal(t, 2, stocks.calls)
}

func TestResolveForTrade_NonPositivePrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stocks := &fakeStockSource{price: tt.price}
			clock := &fakeClock{now: time.Now()}
			resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

			_, err := resolver.ResolveForTrade(context.Background(), "AAPL")
			require.Error(t, err)

			var invalidPrice *domain.InvalidPriceError
			assert.True(t, errors.As(err, &invalidPrice))
		})
	}
}

func TestResolveForTrade_UpstreamFailure(t *testing.T) {
	stocks := &fakeStockSource{err: fmt.Errorf("connection refused")}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	_, err := resolver.ResolveForTrade(context.Background(), "AAPL")
	require.Error(t, err)

	var unavailable *domain.UpstreamUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestResolveForTrade_EmptySymbol(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(&fakeStockSource{}, &fakeCryptoSource{}, clock)

	_, err := resolver.ResolveForTrade(context.Background(), "   ")
	require.Error(t, err)
}

func TestResolveForTrade_InvalidPriceNotCached(t *testing.T) {
	stocks := &fakeStockSource{price: 0}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	_, err := resolver.ResolveForTrade(context.Background(), "AAPL")
	require.Error(t, err)

	stocks.price = 42.00
	price, err := resolver.ResolveForTrade(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(42.00)))
}

func TestResolveForDisplay_FallsBackOnFailure(t *testing.T) {
	stocks := &fakeStockSource{err: fmt.Errorf("timeout")}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	fallback := decimal.NewFromFloat(123.45)
	price, live := resolver.ResolveForDisplay(context.Background(), "AAPL", fallback)
	assert.False(t, live)
	assert.True(t, price.Equal(fallback))
}

func TestResolveForDisplay_UsesLivePriceWhenAvailable(t *testing.T) {
	stocks := &fakeStockSource{price: 200.00}
	clock := &fakeClock{now: time.Now()}
	resolver := newTestResolver(stocks, &fakeCryptoSource{}, clock)

	price, live := resolver.ResolveForDisplay(context.Background(), "AAPL", decimal.NewFromFloat(1.00))
	assert.True(t, live)
	assert.True(t, price.Equal(decimal.NewFromFloat(200.00)))
}
