package snapshots

import "database/sql"

// SnapshotsSchema ensures the portfolio_snapshots table exists
const SnapshotsSchema = `
CREATE TABLE IF NOT EXISTS portfolio_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    portfolio_id INTEGER NOT NULL,
    total_value TEXT NOT NULL,
    cash_balance TEXT NOT NULL,
    positions_value TEXT NOT NULL,
    cost_basis TEXT NOT NULL,
    profit_loss TEXT NOT NULL,
    allocation_json TEXT NOT NULL DEFAULT '{}',
    captured_at TEXT NOT NULL,
    FOREIGN KEY (portfolio_id) REFERENCES portfolios(id)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_portfolio_date
    ON portfolio_snapshots(portfolio_id, captured_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(SnapshotsSchema)
	return err
}
