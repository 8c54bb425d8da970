package assets

import (
	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/database"
	"github.com/ColeJam13/InvestED/internal/domain"
	"github.com/ColeJam13/InvestED/internal/events"
)

// Catalog de-duplicates tradable instruments by (symbol, asset type)
// with get-or-create semantics.
type Catalog struct {
	repo   *Repository
	events *events.Manager
	log    zerolog.Logger
}

// NewCatalog creates a new asset catalog
func NewCatalog(repo *Repository, eventManager *events.Manager, log zerolog.Logger) *Catalog {
	return &Catalog{
		repo:   repo,
		events: eventManager,
		log:    log.With().Str("service", "assets").Logger(),
	}
}

// GetOrCreate returns the asset for (symbol, assetType), creating it with the
// given display name on first use. Runs on the caller's transaction.
func (c *Catalog) GetOrCreate(q database.Queryer, symbol, name string, assetType domain.AssetType) (*Asset, error) {
	asset, created, err := c.repo.GetOrCreate(q, symbol, name, assetType)
	if err != nil {
		return nil, err
	}

	if created && c.events != nil {
		c.events.Emit(events.AssetCreated, "assets", map[string]interface{}{
			"asset_id":   asset.ID,
			"symbol":     asset.Symbol,
			"asset_type": string(asset.AssetType),
		})
	}

	return asset, nil
}

// GetByID returns an asset by ID
func (c *Catalog) GetByID(id int64) (*Asset, error) {
	return c.repo.GetByID(id)
}

// List returns all catalogued assets
func (c *Catalog) List() ([]Asset, error) {
	return c.repo.GetAll()
}
