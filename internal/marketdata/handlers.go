package marketdata

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/api"
)

// Handler exposes price lookups over HTTP
type Handler struct {
	resolver *Resolver
	log      zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(resolver *Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		log:      log.With().Str("handler", "marketdata").Logger(),
	}
}

// HandlePrice returns the current price for ?symbol=. Crypto symbols use
// the CRYPTO: prefix, e.g. /api/market/price?symbol=CRYPTO:BTC
func (h *Handler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		api.WriteError(w, h.log, http.StatusBadRequest, "symbol is required")
		return
	}

	price, err := h.resolver.ResolveForTrade(r.Context(), symbol)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusOK, map[string]string{
		"symbol": symbol,
		"price":  price.String(),
	})
}
