package trading

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
)

const transactionColumns = `
	t.id, t.portfolio_id, t.asset_id, t.type, t.quantity,
	t.price_at_transaction, t.total_amount, t.transaction_date,
	a.symbol, a.name, a.asset_type`

// TransactionRepository handles transaction database operations. The log is
// append-only so the repository exposes no update or delete methods.
type TransactionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

// Create appends a transaction record. The total amount is derived from
// quantity and price here so the two can never disagree. Runs on the
// caller's transaction.
func (r *TransactionRepository) Create(
	q database.Queryer,
	portfolioID, assetID int64,
	txType domain.TransactionType,
	quantity, price decimal.Decimal,
) (*Transaction, error) {
	total := quantity.Mul(price)
	now := time.Now().UTC()

	result, err := q.Exec(
		`INSERT INTO transactions
			(portfolio_id, asset_id, type, quantity, price_at_transaction, total_amount, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		portfolioID,
		assetID,
		string(txType),
		quantity.String(),
		price.String(),
		total.String(),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction id: %w", err)
	}

	return &Transaction{
		ID:                 id,
		PortfolioID:        portfolioID,
		AssetID:            assetID,
		Type:               txType,
		Quantity:           quantity,
		PriceAtTransaction: price,
		TotalAmount:        total,
		TransactionDate:    now,
	}, nil
}

// GetByPortfolio returns a portfolio's transactions, newest first. A limit
// of zero or less returns the full history.
func (r *TransactionRepository) GetByPortfolio(portfolioID int64, limit int) ([]Transaction, error) {
	query := "SELECT " + transactionColumns + `
		FROM transactions t
		JOIN assets a ON a.id = t.asset_id
		WHERE t.portfolio_id = ?
		ORDER BY t.transaction_date DESC, t.id DESC`

	args := []interface{}{portfolioID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return result, nil
}

func scanTransaction(rows *sql.Rows) (*Transaction, error) {
	var tx Transaction
	var txType, quantity, price, total, txDate, assetType string

	err := rows.Scan(
		&tx.ID,
		&tx.PortfolioID,
		&tx.AssetID,
		&txType,
		&quantity,
		&price,
		&total,
		&txDate,
		&tx.Symbol,
		&tx.AssetName,
		&assetType,
	)
	if err != nil {
		return nil, err
	}

	parsedType, err := domain.TransactionTypeFromString(txType)
	if err != nil {
		return nil, err
	}
	tx.Type = parsedType

	if tx.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if tx.PriceAtTransaction, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	if tx.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}

	if ts, err := time.Parse(time.RFC3339, txDate); err == nil {
		tx.TransactionDate = ts
	}

	parsedAssetType, err := domain.AssetTypeFromString(assetType)
	if err != nil {
		return nil, err
	}
	tx.AssetType = parsedAssetType

	return &tx, nil
}
