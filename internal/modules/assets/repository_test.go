package assets

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ColeJam13/InvestED/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A plain in-memory SQLite database exists per connection, so the pool
	// must stay at one connection for every query to see the same data
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetOrCreate_CreatesOnFirstUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	asset, created, err := repo.GetOrCreate(db, "aapl", "Apple Inc.", domain.AssetTypeStock)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "AAPL", asset.Symbol)
	assert.Equal(t, "Apple Inc.", asset.Name)
	assert.Equal(t, domain.AssetTypeStock, asset.AssetType)
	assert.NotZero(t, asset.ID)
}

func TestGetOrCreate_IdempotentOnSameKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	first, created, err := repo.GetOrCreate(db, "AAPL", "Apple Inc.", domain.AssetTypeStock)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := repo.GetOrCreate(db, "AAPL", "Apple Incorporated", domain.AssetTypeStock)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// Display name from the first creation wins
	assert.Equal(t, "Apple Inc.", second.Name)
}

func TestGetOrCreate_SameSymbolDifferentType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	stock, _, err := repo.GetOrCreate(db, "SPY", "SPDR S&P 500", domain.AssetTypeETF)
	require.NoError(t, err)

	crypto, _, err := repo.GetOrCreate(db, "SPY", "Spy Coin", domain.AssetTypeCrypto)
	require.NoError(t, err)

	assert.NotEqual(t, stock.ID, crypto.ID)
}

func TestGetOrCreate_RejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, _, err := repo.GetOrCreate(db, "   ", "Blank", domain.AssetTypeStock)
	assert.Error(t, err)

	_, _, err = repo.GetOrCreate(db, "AAPL", "Apple Inc.", domain.AssetType("BOND"))
	assert.Error(t, err)
}

func TestGetBySymbolAndType_NilWhenAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	asset, err := repo.GetBySymbolAndType("MISSING", domain.AssetTypeStock)
	require.NoError(t, err)
	assert.Nil(t, asset)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, err := repo.GetByID(99)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestGetAll_OrderedBySymbol(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	_, _, err := repo.GetOrCreate(db, "MSFT", "Microsoft", domain.AssetTypeStock)
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(db, "AAPL", "Apple Inc.", domain.AssetTypeStock)
	require.NoError(t, err)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAPL", all[0].Symbol)
	assert.Equal(t, "MSFT", all[1].Symbol)
}
