package trading

import "database/sql"

// TransactionsSchema ensures the transactions table exists. The table is
// append-only; there is no update or delete path anywhere in the codebase.
const TransactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    portfolio_id INTEGER NOT NULL,
    asset_id INTEGER NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('BUY', 'SELL')),
    quantity TEXT NOT NULL,
    price_at_transaction TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    transaction_date TEXT NOT NULL,
    FOREIGN KEY (portfolio_id) REFERENCES portfolios(id),
    FOREIGN KEY (asset_id) REFERENCES assets(id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_portfolio_date
    ON transactions(portfolio_id, transaction_date DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(TransactionsSchema)
	return err
}
