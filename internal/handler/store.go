package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

// StoreHandler serves /api/store.
type StoreHandler struct {
	repo repository.StoreRepository
}

func NewStoreHandler(repo repository.StoreRepository) *StoreHandler {
	return &StoreHandler{repo: repo}
}

func (h *StoreHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StoreHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	item, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *StoreHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var item model.StoreItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	if err := h.repo.Create(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *StoreHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var item model.StoreItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}
	item.ID = id
	if err := h.repo.Update(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *StoreHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
