package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/auth"
	"github.com/anakena/club-server/internal/service"
)

// AuthHandler owns the /api/auth endpoints.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister  → create the account, auto-login, set the cookie
//   - HandleLogin     → verify credentials, set the cookie
//   - HandleLogout    → clear the cookie (idempotent)
//   - HandleMe        → return the session's sanitized user
//   - HandleListUsers → admin-only listing of all accounts
//
// The handler owns all cookie-setting; the service layer never touches HTTP.
// secureCookies is true in production — the Secure attribute on the session
// cookie requires HTTPS, which local dev doesn't have.
type AuthHandler struct {
	svc           *service.AuthService
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// sessionResponse is the body returned by register and login: the sanitized
// user plus the CSRF secret the client must cache and replay in the
// x-csrf-token header. The session token itself never appears in a body —
// it travels only in the HttpOnly cookie.
type sessionResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrfToken"`
}

// HandleRegister creates an account and immediately starts a session.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username": "ana", "email": "ana@club.org", "password": "secret1"}
//
// Note the request struct has no isAdmin field at all — admin status is
// derived server-side from the email domain and cannot be supplied.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, r, http.StatusCreated, user.ID, user.Username, user.Email)
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email": "ana@club.org", "password": "secret1"}
//
// Unknown email and wrong password produce the identical 401 — see
// service.AuthService.Login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, r, http.StatusOK, user.ID, user.Username, user.Email)
}

// startSession mints the token/CSRF pair, sets the HttpOnly cookie and
// writes the session body. Shared by register (201) and login (200).
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, id, username, email string) {
	token, csrfToken, err := h.svc.IssueSession(id)
	if err != nil {
		h.logger.Error("issuing session failed",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.secureCookies))

	writeJSON(w, status, sessionResponse{
		ID:        id,
		Username:  username,
		Email:     email,
		CSRFToken: csrfToken,
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// Logout is idempotent: with stateless sessions there is nothing to revoke
// server-side, so clearing the cookie always succeeds — even when no session
// existed. The token itself stays technically valid until expiry, but
// without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.secureCookies))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// HandleMe returns the currently authenticated user's sanitized profile.
//
// HTTP: GET /api/auth/me
// Auth: RequireSession (cookie + x-csrf-token)
//
// 404 — not 401 — when the subject row no longer exists: the session was
// valid, the account is simply gone (deleted between issuance and use).
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireSession-protected route, but be safe.
		writeError(w, apperror.Unauthenticated(errors.New("no session in context"), "Not authenticated"))
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// HandleListUsers returns every account's sanitized projection.
//
// HTTP: GET /api/auth/users
// Auth: RequireSession + admin account
//
// The upstream design served this without any guard; that exposed the full
// member list to anyone. It is deliberately admin-gated here.
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated(errors.New("no session in context"), "Not authenticated"))
		return
	}

	caller, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !caller.IsAdmin {
		writeError(w, apperror.Forbidden("Admin access required"))
		return
	}

	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
