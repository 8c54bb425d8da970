package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
)

// positionColumns joins positions with their asset for read paths
const positionColumns = `
	p.id, p.portfolio_id, p.asset_id, p.quantity, p.average_buy_price, p.updated_at,
	a.symbol, a.name, a.asset_type`

// PositionRepository handles position database operations
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

// GetByID returns a position by ID with asset info joined
func (r *PositionRepository) GetByID(id int64) (*Position, error) {
	query := "SELECT " + positionColumns + `
		FROM positions p
		JOIN assets a ON a.id = p.asset_id
		WHERE p.id = ?`

	pos, err := r.queryOne(r.db, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position by id: %w", err)
	}

	return pos, nil
}

// GetByPortfolio returns all positions in a portfolio with asset info joined
func (r *PositionRepository) GetByPortfolio(portfolioID int64) ([]Position, error) {
	query := "SELECT " + positionColumns + `
		FROM positions p
		JOIN assets a ON a.id = p.asset_id
		WHERE p.portfolio_id = ?
		ORDER BY a.symbol ASC`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var result []Position
	for rows.Next() {
		pos, err := scanPositionFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		result = append(result, *pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return result, nil
}

// getByPortfolioAndAsset returns the unique position for (portfolio, asset),
// or nil when none exists. Runs on the caller's transaction.
func (r *PositionRepository) getByPortfolioAndAsset(q database.Queryer, portfolioID, assetID int64) (*Position, error) {
	query := "SELECT " + positionColumns + `
		FROM positions p
		JOIN assets a ON a.id = p.asset_id
		WHERE p.portfolio_id = ? AND p.asset_id = ?`

	pos, err := r.queryOne(q, query, portfolioID, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position by portfolio and asset: %w", err)
	}

	return pos, nil
}

// insert creates a new position row and returns its ID
func (r *PositionRepository) insert(q database.Queryer, pos *Position) error {
	now := time.Now().UTC()
	result, err := q.Exec(
		"INSERT INTO positions (portfolio_id, asset_id, quantity, average_buy_price, updated_at) VALUES (?, ?, ?, ?, ?)",
		pos.PortfolioID,
		pos.AssetID,
		pos.Quantity.String(),
		pos.AverageBuyPrice.String(),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get created position id: %w", err)
	}

	pos.ID = id
	pos.UpdatedAt = now
	return nil
}

// update sets a position's quantity and average buy price
func (r *PositionRepository) update(q database.Queryer, pos *Position) error {
	now := time.Now().UTC()
	_, err := q.Exec(
		"UPDATE positions SET quantity = ?, average_buy_price = ?, updated_at = ? WHERE id = ?",
		pos.Quantity.String(),
		pos.AverageBuyPrice.String(),
		now.Format(time.RFC3339),
		pos.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	pos.UpdatedAt = now
	return nil
}

// deleteByID removes a fully liquidated position
func (r *PositionRepository) deleteByID(q database.Queryer, id int64) error {
	if _, err := q.Exec("DELETE FROM positions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (r *PositionRepository) queryOne(q database.Queryer, query string, args ...interface{}) (*Position, error) {
	return scanPosition(q.QueryRow(query, args...))
}

func scanPosition(row *sql.Row) (*Position, error) {
	var pos Position
	var quantity, avgPrice, updatedAt, assetType string

	err := row.Scan(
		&pos.ID,
		&pos.PortfolioID,
		&pos.AssetID,
		&quantity,
		&avgPrice,
		&updatedAt,
		&pos.Symbol,
		&pos.AssetName,
		&assetType,
	)
	if err != nil {
		return nil, err
	}

	return hydratePosition(pos, quantity, avgPrice, updatedAt, assetType)
}

func scanPositionFromRows(rows *sql.Rows) (*Position, error) {
	var pos Position
	var quantity, avgPrice, updatedAt, assetType string

	err := rows.Scan(
		&pos.ID,
		&pos.PortfolioID,
		&pos.AssetID,
		&quantity,
		&avgPrice,
		&updatedAt,
		&pos.Symbol,
		&pos.AssetName,
		&assetType,
	)
	if err != nil {
		return nil, err
	}

	return hydratePosition(pos, quantity, avgPrice, updatedAt, assetType)
}

func hydratePosition(pos Position, quantity, avgPrice, updatedAt, assetType string) (*Position, error) {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	pos.Quantity = qty

	avg, err := decimal.NewFromString(avgPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse average buy price: %w", err)
	}
	pos.AverageBuyPrice = avg

	if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		pos.UpdatedAt = ts
	}

	parsedType, err := domain.AssetTypeFromString(assetType)
	if err != nil {
		return nil, err
	}
	pos.AssetType = parsedType

	return &pos, nil
}
