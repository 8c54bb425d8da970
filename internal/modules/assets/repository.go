package assets

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
)

// assetColumns is the list of columns for the assets table.
// Column order must match scanAsset expectations.
const assetColumns = `id, symbol, name, asset_type, created_at`

// Repository handles asset database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new asset repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "assets").Logger(),
	}
}

// GetByID returns an asset by ID
func (r *Repository) GetByID(id int64) (*Asset, error) {
	return r.getByID(r.db, id)
}

func (r *Repository) getByID(q database.Queryer, id int64) (*Asset, error) {
	row := q.QueryRow("SELECT "+assetColumns+" FROM assets WHERE id = ?", id)

	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset by id: %w", err)
	}

	return asset, nil
}

// GetBySymbolAndType returns an asset by its unique (symbol, asset type) key,
// or nil when absent
func (r *Repository) GetBySymbolAndType(symbol string, assetType domain.AssetType) (*Asset, error) {
	return r.getBySymbolAndType(r.db, symbol, assetType)
}

func (r *Repository) getBySymbolAndType(q database.Queryer, symbol string, assetType domain.AssetType) (*Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets WHERE symbol = ? AND asset_type = ?"

	row := q.QueryRow(query, domain.NormalizeSymbol(symbol), string(assetType))
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset by symbol and type: %w", err)
	}

	return asset, nil
}

// GetAll returns all catalogued assets
func (r *Repository) GetAll() ([]Asset, error) {
	rows, err := r.db.Query("SELECT " + assetColumns + " FROM assets ORDER BY symbol ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var result []Asset
	for rows.Next() {
		asset, err := scanAssetFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		result = append(result, *asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return result, nil
}

// GetOrCreate looks up an asset by (symbol, asset type) and creates it when
// absent. Idempotent under concurrent calls with the same key: the unique
// index rejects a duplicate insert and the loser re-reads the winner's row.
// Returns the asset and whether it was newly created.
func (r *Repository) GetOrCreate(q database.Queryer, symbol, name string, assetType domain.AssetType) (*Asset, bool, error) {
	asset := &Asset{
		Symbol:    symbol,
		Name:      name,
		AssetType: assetType,
	}
	if err := asset.Validate(); err != nil {
		return nil, false, fmt.Errorf("failed to get or create asset: %w", err)
	}

	existing, err := r.getBySymbolAndType(q, asset.Symbol, asset.AssetType)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	result, err := q.Exec(
		"INSERT INTO assets (symbol, name, asset_type, created_at) VALUES (?, ?, ?, ?)",
		asset.Symbol,
		asset.Name,
		string(asset.AssetType),
		now.Format(time.RFC3339),
	)
	if err != nil {
		// Lost a creation race: the unique index on (symbol, asset_type)
		// rejected the insert, so the winner's row must exist now.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			existing, reErr := r.getBySymbolAndType(q, asset.Symbol, asset.AssetType)
			if reErr != nil {
				return nil, false, reErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get created asset id: %w", err)
	}

	asset.ID = id
	asset.CreatedAt = now

	r.log.Info().
		Str("symbol", asset.Symbol).
		Str("asset_type", string(asset.AssetType)).
		Int64("id", id).
		Msg("Asset created")

	return asset, true, nil
}

// scanAsset scans a single-row result into an Asset
func scanAsset(row *sql.Row) (*Asset, error) {
	var asset Asset
	var assetType, createdAt string

	if err := row.Scan(&asset.ID, &asset.Symbol, &asset.Name, &assetType, &createdAt); err != nil {
		return nil, err
	}

	return hydrateAsset(asset, assetType, createdAt)
}

// scanAssetFromRows scans the current row of a multi-row result
func scanAssetFromRows(rows *sql.Rows) (*Asset, error) {
	var asset Asset
	var assetType, createdAt string

	if err := rows.Scan(&asset.ID, &asset.Symbol, &asset.Name, &assetType, &createdAt); err != nil {
		return nil, err
	}

	return hydrateAsset(asset, assetType, createdAt)
}

func hydrateAsset(asset Asset, assetType, createdAt string) (*Asset, error) {
	parsedType, err := domain.AssetTypeFromString(assetType)
	if err != nil {
		return nil, err
	}
	asset.AssetType = parsedType

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		asset.CreatedAt = ts
	}

	return &asset, nil
}
