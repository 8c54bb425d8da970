package portfolio

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/api"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

type createPortfolioRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type renamePortfolioRequest struct {
	Name string `json:"name"`
}

// HandleCreate opens a new portfolio for a user
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	pf, err := h.service.Create(req.UserID, req.Name)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusCreated, pf)
}

// HandleGet returns a portfolio by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	pf, err := h.service.Get(id)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusOK, pf)
}

// HandleRename updates a portfolio's name
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	var req renamePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	pf, err := h.service.Rename(id, req.Name)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusOK, pf)
}

// HandleListByUser returns all portfolios owned by a user
func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid user id")
		return
	}

	portfolios, err := h.service.ListByUser(userID)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	if portfolios == nil {
		portfolios = []Portfolio{}
	}
	api.WriteJSON(w, h.log, http.StatusOK, portfolios)
}

// HandleListPositions returns a portfolio's open positions
func (h *Handler) HandleListPositions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.portfolioID(w, r)
	if !ok {
		return
	}

	positions, err := h.service.ListPositions(id)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	if positions == nil {
		positions = []Position{}
	}
	api.WriteJSON(w, h.log, http.StatusOK, positions)
}

func (h *Handler) portfolioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "portfolioID"), 10, 64)
	if err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid portfolio id")
		return 0, false
	}
	return id, true
}
