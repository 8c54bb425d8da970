package assets

import "database/sql"

// AssetsSchema ensures the assets table exists.
// The unique index on (symbol, asset_type) backs the catalog's
// get-or-create idempotency under concurrent trades.
const AssetsSchema = `
CREATE TABLE IF NOT EXISTS assets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol TEXT NOT NULL,
    name TEXT NOT NULL,
    asset_type TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS uk_assets_symbol_type ON assets(symbol, asset_type);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(AssetsSchema)
	return err
}
