package handler

// The club's catalog resources (teams, players, matches, news, tournaments,
// events, store) share one uniform REST contract: list, get-by-id, create,
// full-replace update, delete, keyed by a numeric public id. The handlers
// below are deliberately plain plumbing — validation beyond "parseable id,
// decodable JSON" belongs to the storage schema, which is where the original
// kept it too.

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anakena/club-server/internal/apperror"
)

// resourceID extracts the numeric {id} URL parameter. A non-numeric id is a
// 400 ("Malformatted id"), matching what the upstream API returned for a
// cast failure.
func resourceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "Malformatted id"))
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, 0 when absent or
// unparseable (an unparseable filter just means "no filter", as upstream).
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
