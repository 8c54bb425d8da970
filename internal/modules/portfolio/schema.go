package portfolio

import "database/sql"

// PortfolioSchema ensures the portfolios and positions tables exist.
// Decimal amounts are stored as TEXT and parsed with shopspring/decimal
// so cash and cost-basis arithmetic stays exact.
const PortfolioSchema = `
CREATE TABLE IF NOT EXISTS portfolios (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    cash_balance TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_portfolios_user ON portfolios(user_id);

CREATE TABLE IF NOT EXISTS positions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    portfolio_id INTEGER NOT NULL,
    asset_id INTEGER NOT NULL,
    quantity TEXT NOT NULL,
    average_buy_price TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (portfolio_id, asset_id),
    FOREIGN KEY (portfolio_id) REFERENCES portfolios(id),
    FOREIGN KEY (asset_id) REFERENCES assets(id)
);

CREATE INDEX IF NOT EXISTS idx_positions_portfolio ON positions(portfolio_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(PortfolioSchema)
	return err
}
