package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ColeJam13/InvestED/internal/modules/portfolio"
	"github.com/ColeJam13/InvestED/internal/modules/valuation"
)

type fakeBuilder struct {
	summaries map[int64]*valuation.Summary
}

func (f *fakeBuilder) BuildSummary(_ context.Context, portfolioID int64) (*valuation.Summary, error) {
	summary, ok := f.summaries[portfolioID]
	if !ok {
		return nil, errors.New("no summary")
	}
	return summary, nil
}

type fakeLister struct {
	portfolios []portfolio.Portfolio
}

func (f *fakeLister) GetAll() ([]portfolio.Portfolio, error) {
	return f.portfolios, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupSnapshotDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A plain in-memory SQLite database exists per connection, so the pool
	// must stay at one connection for every query to see the same data
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func testSummary(portfolioID int64, total string) *valuation.Summary {
	return &valuation.Summary{
		PortfolioID:    portfolioID,
		Name:           "Test",
		CashBalance:    dec("1000"),
		CostBasis:      dec("1900"),
		PositionsValue: dec("2000"),
		TotalValue:     dec(total),
		ProfitLoss:     dec("100"),
		AllocationByType: map[string]decimal.Decimal{
			"STOCK": dec("100"),
		},
	}
}

func TestCapture_StoresSummary(t *testing.T) {
	db := setupSnapshotDB(t)
	builder := &fakeBuilder{summaries: map[int64]*valuation.Summary{
		1: testSummary(1, "3000"),
	}}
	svc := NewService(NewRepository(db, zerolog.Nop()), builder, nil, zerolog.Nop())

	snap, err := svc.Capture(context.Background(), 1)
	require.NoError(t, err)
	assert.NotZero(t, snap.ID)
	assert.True(t, snap.TotalValue.Equal(dec("3000")))

	history, err := svc.History(1, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].ProfitLoss.Equal(dec("100")))
	assert.Equal(t, "100", history[0].AllocationByType["STOCK"].String())
	assert.WithinDuration(t, time.Now().UTC(), history[0].CapturedAt, 5*time.Second)
}

func TestCapture_PropagatesValuationError(t *testing.T) {
	db := setupSnapshotDB(t)
	svc := NewService(NewRepository(db, zerolog.Nop()), &fakeBuilder{}, nil, zerolog.Nop())

	_, err := svc.Capture(context.Background(), 99)
	assert.Error(t, err)
}

func TestHistory_ScopedToPortfolio(t *testing.T) {
	db := setupSnapshotDB(t)
	builder := &fakeBuilder{summaries: map[int64]*valuation.Summary{
		1: testSummary(1, "3000"),
		2: testSummary(2, "5000"),
	}}
	svc := NewService(NewRepository(db, zerolog.Nop()), builder, nil, zerolog.Nop())

	_, err := svc.Capture(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Capture(context.Background(), 2)
	require.NoError(t, err)

	history, err := svc.History(1, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(1), history[0].PortfolioID)
}

func TestCaptureJob_SweepsAllPortfolios(t *testing.T) {
	db := setupSnapshotDB(t)
	builder := &fakeBuilder{summaries: map[int64]*valuation.Summary{
		1: testSummary(1, "3000"),
		2: testSummary(2, "5000"),
	}}
	svc := NewService(NewRepository(db, zerolog.Nop()), builder, nil, zerolog.Nop())
	lister := &fakeLister{portfolios: []portfolio.Portfolio{{ID: 1}, {ID: 2}}}

	job := NewCaptureJob(svc, lister, time.Minute, zerolog.Nop())
	assert.Equal(t, "snapshot_capture", job.Name())
	require.NoError(t, job.Run())

	for _, id := range []int64{1, 2} {
		history, err := svc.History(id, 7)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	}
}

func TestCaptureJob_ContinuesPastFailures(t *testing.T) {
	db := setupSnapshotDB(t)
	// Portfolio 1 has no summary and fails; portfolio 2 should still capture
	builder := &fakeBuilder{summaries: map[int64]*valuation.Summary{
		2: testSummary(2, "5000"),
	}}
	svc := NewService(NewRepository(db, zerolog.Nop()), builder, nil, zerolog.Nop())
	lister := &fakeLister{portfolios: []portfolio.Portfolio{{ID: 1}, {ID: 2}}}

	job := NewCaptureJob(svc, lister, time.Minute, zerolog.Nop())
	assert.Error(t, job.Run())

	history, err := svc.History(2, 7)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
