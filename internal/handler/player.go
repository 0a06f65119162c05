package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

// PlayerHandler serves /api/players.
type PlayerHandler struct {
	repo repository.PlayerRepository
}

func NewPlayerHandler(repo repository.PlayerRepository) *PlayerHandler {
	return &PlayerHandler{repo: repo}
}

// HandleList handles GET /api/players. An optional ?teamId= query
// narrows the list to a single team's roster.
func (h *PlayerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teamID := queryInt(r, "teamId")
	players, err := h.repo.List(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleGetByID handles GET /api/players/{id}
func (h *PlayerHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	player, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// HandleCreate handles POST /api/players
func (h *PlayerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var player model.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	if err := h.repo.Create(r.Context(), &player); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

// HandleUpdate handles PUT /api/players/{id}
func (h *PlayerHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var player model.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	player.ID = id
	if err := h.repo.Update(r.Context(), &player); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// HandleDelete handles DELETE /api/players/{id}
func (h *PlayerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
