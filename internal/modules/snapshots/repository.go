package snapshots

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const snapshotColumns = `
	id, portfolio_id, total_value, cash_balance, positions_value,
	cost_basis, profit_loss, allocation_json, captured_at`

// Repository handles snapshot database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Create inserts a snapshot
func (r *Repository) Create(snap *Snapshot) error {
	allocation, err := json.Marshal(snap.AllocationByType)
	if err != nil {
		return fmt.Errorf("failed to encode allocation: %w", err)
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(
		`INSERT INTO portfolio_snapshots
			(portfolio_id, total_value, cash_balance, positions_value, cost_basis, profit_loss, allocation_json, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.PortfolioID,
		snap.TotalValue.String(),
		snap.CashBalance.String(),
		snap.PositionsValue.String(),
		snap.CostBasis.String(),
		snap.ProfitLoss.String(),
		string(allocation),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get snapshot id: %w", err)
	}

	snap.ID = id
	snap.CapturedAt = now
	return nil
}

// GetByPortfolio returns a portfolio's snapshots captured since the cutoff,
// oldest first so charts can plot them directly.
func (r *Repository) GetByPortfolio(portfolioID int64, since time.Time) ([]Snapshot, error) {
	rows, err := r.db.Query(
		"SELECT "+snapshotColumns+`
		FROM portfolio_snapshots
		WHERE portfolio_id = ? AND captured_at >= ?
		ORDER BY captured_at ASC`,
		portfolioID,
		since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var result []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		result = append(result, *snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return result, nil
}

func scanSnapshot(rows *sql.Rows) (*Snapshot, error) {
	var snap Snapshot
	var total, cash, positions, cost, pl, allocation, capturedAt string

	err := rows.Scan(
		&snap.ID,
		&snap.PortfolioID,
		&total,
		&cash,
		&positions,
		&cost,
		&pl,
		&allocation,
		&capturedAt,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{total, &snap.TotalValue},
		{cash, &snap.CashBalance},
		{positions, &snap.PositionsValue},
		{cost, &snap.CostBasis},
		{pl, &snap.ProfitLoss},
	}
	for _, f := range fields {
		parsed, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot amount: %w", err)
		}
		*f.dest = parsed
	}

	if err := json.Unmarshal([]byte(allocation), &snap.AllocationByType); err != nil {
		return nil, fmt.Errorf("failed to decode allocation: %w", err)
	}

	if ts, err := time.Parse(time.RFC3339, capturedAt); err == nil {
		snap.CapturedAt = ts
	}

	return &snap, nil
}
