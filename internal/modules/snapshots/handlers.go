package snapshots

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/api"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleCapture snapshots the portfolio immediately
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	snap, err := h.service.Capture(r.Context(), portfolioID)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusCreated, snap)
}

// HandleHistory returns snapshots from the last N days (default 90)
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.WriteError(w, h.log, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	history, err := h.service.History(portfolioID, days)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	if history == nil {
		history = []Snapshot{}
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
