package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

// NewsHandler serves /api/news.
type NewsHandler struct {
	repo repository.NewsRepository
}

func NewNewsHandler(repo repository.NewsRepository) *NewsHandler {
	return &NewsHandler{repo: repo}
}

// HandleList handles GET /api/news. With ?featured=true only featured
// articles come back; any other value of the flag is ignored.
func (h *NewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	featuredOnly := r.URL.Query().Get("featured") == "true"
	items, err := h.repo.List(r.Context(), featuredOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetByID handles GET /api/news/{id}
func (h *NewsHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
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

// HandleCreate handles POST /api/news
func (h *NewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var item model.NewsItem
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

// HandleUpdate handles PUT /api/news/{id}
func (h *NewsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var item model.NewsItem
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

// HandleDelete handles DELETE /api/news/{id}
func (h *NewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
