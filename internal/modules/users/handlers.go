package users

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ColeJam13/InvestED/internal/api"
)

// Handler handles user HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new user handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "users").Logger(),
	}
}

type createUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// HandleCreate registers a new user. Email is unique; re-registering an
// existing email returns the existing user.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.repo.GetByEmail(req.Email)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}
	if existing != nil {
		api.WriteJSON(w, h.log, http.StatusOK, existing)
		return
	}

	user, err := h.repo.Create(req.Email, req.DisplayName)
	if err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSON(w, h.log, http.StatusCreated, user)
}

// HandleGet returns a user by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		api.WriteError(w, h.log, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.repo.GetByID(id)
	if err != nil {
		api.WriteDomainError(w, h.log, err)
		return
	}

	api.WriteJSON(w, h.log, http.StatusOK, user)
}
