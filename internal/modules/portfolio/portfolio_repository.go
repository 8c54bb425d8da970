package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
)

const portfolioColumns = `id, user_id, name, cash_balance, created_at`

// PortfolioRepository handles portfolio database operations
type PortfolioRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *sql.DB, log zerolog.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// Create inserts a new portfolio with the given starting cash
func (r *PortfolioRepository) Create(userID int64, name string, startingCash decimal.Decimal) (*Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("portfolio name cannot be empty")
	}
	if startingCash.IsNegative() {
		return nil, fmt.Errorf("starting cash cannot be negative")
	}

	now := time.Now().UTC()
	result, err := r.db.Exec(
		"INSERT INTO portfolios (user_id, name, cash_balance, created_at) VALUES (?, ?, ?, ?)",
		userID,
		name,
		startingCash.String(),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get created portfolio id: %w", err)
	}

	r.log.Info().
		Int64("portfolio_id", id).
		Int64("user_id", userID).
		Str("starting_cash", startingCash.String()).
		Msg("Portfolio created")

	return &Portfolio{
		ID:          id,
		UserID:      userID,
		Name:        name,
		CashBalance: startingCash,
		CreatedAt:   now,
	}, nil
}

// GetByID returns a portfolio by ID
func (r *PortfolioRepository) GetByID(id int64) (*Portfolio, error) {
	row := r.db.QueryRow("SELECT "+portfolioColumns+" FROM portfolios WHERE id = ?", id)

	pf, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio by id: %w", err)
	}

	return pf, nil
}

// GetByUser returns all portfolios owned by a user
func (r *PortfolioRepository) GetByUser(userID int64) ([]Portfolio, error) {
	rows, err := r.db.Query(
		"SELECT "+portfolioColumns+" FROM portfolios WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios by user: %w", err)
	}
	defer rows.Close()

	return collectPortfolios(rows)
}

// GetAll returns all portfolios
func (r *PortfolioRepository) GetAll() ([]Portfolio, error) {
	rows, err := r.db.Query("SELECT " + portfolioColumns + " FROM portfolios ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	return collectPortfolios(rows)
}

// Rename updates a portfolio's display name
func (r *PortfolioRepository) Rename(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("portfolio name cannot be empty")
	}

	result, err := r.db.Exec("UPDATE portfolios SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename portfolio: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrPortfolioNotFound
	}

	r.log.Info().Int64("portfolio_id", id).Str("name", name).Msg("Portfolio renamed")
	return nil
}

// UpdateCashBalance sets a portfolio's cash balance. Runs on the caller's
// transaction as part of a trade commit; the balance must not be negative.
func (r *PortfolioRepository) UpdateCashBalance(q database.Queryer, id int64, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("cash balance cannot go negative: %s", balance)
	}

	result, err := q.Exec("UPDATE portfolios SET cash_balance = ? WHERE id = ?", balance.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrPortfolioNotFound
	}

	return nil
}

func collectPortfolios(rows *sql.Rows) ([]Portfolio, error) {
	var result []Portfolio
	for rows.Next() {
		var pf Portfolio
		var cash, createdAt string

		if err := rows.Scan(&pf.ID, &pf.UserID, &pf.Name, &cash, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}

		parsed, err := decimal.NewFromString(cash)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cash balance: %w", err)
		}
		pf.CashBalance = parsed

		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			pf.CreatedAt = ts
		}

		result = append(result, pf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return result, nil
}

func scanPortfolio(row *sql.Row) (*Portfolio, error) {
	var pf Portfolio
	var cash, createdAt string

	if err := row.Scan(&pf.ID, &pf.UserID, &pf.Name, &cash, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(cash)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash balance: %w", err)
	}
	pf.CashBalance = parsed

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		pf.CreatedAt = ts
	}

	return &pf, nil
}
