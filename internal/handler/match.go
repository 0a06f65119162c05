package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

// MatchHandler serves /api/matches.
type MatchHandler struct {
	repo repository.MatchRepository
}

func NewMatchHandler(repo repository.MatchRepository) *MatchHandler {
	return &MatchHandler{repo: repo}
}

// HandleList handles GET /api/matches, optionally filtered by ?teamId=.
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teamID := queryInt(r, "teamId")
	matches, err := h.repo.List(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGetByID handles GET /api/matches/{id}
func (h *MatchHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	match, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// HandleCreate handles POST /api/matches
func (h *MatchHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var match model.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	if err := h.repo.Create(r.Context(), &match); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

// HandleUpdate handles PUT /api/matches/{id}
func (h *MatchHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var match model.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	match.ID = id
	if err := h.repo.Update(r.Context(), &match); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// HandleDelete handles DELETE /api/matches/{id}
func (h *MatchHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
