package trading

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/api"
)

// Handler handles trading HTTP requests
type Handler struct {
	engine *Engine
	log    zerolog.Logger
}

// NewHandler creates a new trading handler
func NewHandler(engine *Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "trading").Logger(),
	}
}

// HandleBuy executes a buy for the portfolio in the URL
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.Buy(r.Context(), portfolioID, req)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusCreated, result)
}

// HandleSell executes a sell for the portfolio in the URL
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	var req SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.Sell(r.Context(), portfolioID, req)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusCreated, result)
}

// HandleHistory returns the portfolio's transaction history, newest first.
// An optional limit query parameter caps the number of rows.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.WriteError(w, h.log, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.engine.History(portfolioID, limit)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	if history == nil {
		history = []Transaction{}
	}
	api.WriteJSON(w, h.log, http.StatusOK, history)
}

func (h *Handler) portfolioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "portfolioID"), 10, 64)
	if err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid portfolio id")
		return 0, false
	}
	return id, true
}
