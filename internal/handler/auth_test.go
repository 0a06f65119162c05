package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anakena/club-server/internal/auth"
	"github.com/anakena/club-server/internal/handler"
	"github.com/anakena/club-server/internal/repository/sqlite"
	"github.com/anakena/club-server/internal/service"
)

// newAuthRouter wires the real middleware, service and storage behind the
// auth endpoints, backed by an in-memory database. Tests drive it through
// httptest exactly the way a browser would.
func newAuthRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	svc := service.NewAuthService(db.Users(), tokens, auth.NewPasswordServiceForTest(), "@anakena.cl", logger)
	h := handler.NewAuthHandler(svc, false, logger)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.Post("/logout", h.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(tokens))
			r.Get("/me", h.HandleMe)
			r.Get("/users", h.HandleListUsers)
		})
	})
	return r
}

func postJSON(t *testing.T, router chi.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// session captures everything a client keeps after register/login.
type session struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrfToken"`
	cookie    *http.Cookie
}

// register creates an account and returns the resulting session state.
func register(t *testing.T, router chi.Router, username, email, password string) session {
	t.Helper()

	rr := postJSON(t, router, "/api/auth/register",
		`{"username":"`+username+`","email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, "register body: %s", rr.Body.String())

	var s session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&s))

	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			s.cookie = c
		}
	}
	require.NotNil(t, s.cookie, "register must set the session cookie")
	return s
}

// =========================================================================
// REGISTER
// =========================================================================

func TestHandleRegister_StartsSession(t *testing.T) {
	router := newAuthRouter(t)

	s := register(t, router, "ana", "ana@club.org", "secret1")

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "ana", s.Username)
	assert.Equal(t, "ana@club.org", s.Email)
	assert.Len(t, s.CSRFToken, 64, "csrf secret is 32 random bytes hex-encoded")

	// Cookie carries the token with the attributes the browser needs
	assert.True(t, s.cookie.HttpOnly)
	assert.Equal(t, "/", s.cookie.Path)
	assert.Equal(t, 3600, s.cookie.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, s.cookie.SameSite)
	assert.NotEmpty(t, s.cookie.Value)
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	router := newAuthRouter(t)

	register(t, router, "first", "dup@club.org", "secret1")

	rr := postJSON(t, router, "/api/auth/register",
		`{"username":"second","email":"dup@club.org","password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rr.Body.String())
}

func TestHandleRegister_ValidationError(t *testing.T) {
	router := newAuthRouter(t)

	rr := postJSON(t, router, "/api/auth/register",
		`{"username":"ab","email":"a@b.co","password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Username must be at least 3 characters long"}`, rr.Body.String())
}

func TestHandleRegister_MalformedJSON(t *testing.T) {
	router := newAuthRouter(t)

	rr := postJSON(t, router, "/api/auth/register", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// =========================================================================
// LOGIN
// =========================================================================

func TestHandleLogin_Success(t *testing.T) {
	router := newAuthRouter(t)

	register(t, router, "ana", "ana@club.org", "secret1")

	rr := postJSON(t, router, "/api/auth/login",
		`{"email":"ana@club.org","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, rr.Code)

	var s session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&s))
	assert.Equal(t, "ana", s.Username)
	assert.Len(t, s.CSRFToken, 64)
}

func TestHandleLogin_FailuresIndistinguishable(t *testing.T) {
	router := newAuthRouter(t)

	register(t, router, "ana", "ana@club.org", "secret1")

	// Unknown email and wrong password must be byte-for-byte identical:
	// same status, same body. Otherwise login doubles as an email oracle.
	unknown := postJSON(t, router, "/api/auth/login",
		`{"email":"ghost@club.org","password":"secret1"}`)
	wrong := postJSON(t, router, "/api/auth/login",
		`{"email":"ana@club.org","password":"not-the-password"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, unknown.Body.String())
}

func TestHandleLogin_FreshCSRFPerLogin(t *testing.T) {
	router := newAuthRouter(t)

	first := register(t, router, "ana", "ana@club.org", "secret1")

	rr := postJSON(t, router, "/api/auth/login",
		`{"email":"ana@club.org","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var second session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&second))

	assert.NotEqual(t, first.CSRFToken, second.CSRFToken,
		"every login mints a fresh csrf secret")
}

// =========================================================================
// ME (full session round trip)
// =========================================================================

func TestHandleMe_WithFreshSession(t *testing.T) {
	router := newAuthRouter(t)

	s := register(t, router, "ana", "ana@club.org", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(s.cookie)
	req.Header.Set(auth.CSRFHeader, s.CSRFToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	// The public projection has no password field at all
	assert.NotContains(t, body, "password")

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	assert.Equal(t, s.ID, me.ID)
	assert.Equal(t, "ana", me.Username)
}

func TestHandleMe_RejectionLadder(t *testing.T) {
	router := newAuthRouter(t)

	s := register(t, router, "ana", "ana@club.org", "secret1")

	cases := []struct {
		name      string
		cookie    *http.Cookie
		csrf      string
		wantError string
	}{
		{"no cookie no header", nil, "", "Authentication token missing, please log in"},
		{"cookie but no header", s.cookie, "", "CSRF token missing"},
		{"cookie with wrong header", s.cookie, "deadbeef", "Invalid CSRF token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			if tc.csrf != "" {
				req.Header.Set(auth.CSRFHeader, tc.csrf)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"`+tc.wantError+`"}`, rr.Body.String())
		})
	}
}

// =========================================================================
// LOGOUT
// =========================================================================

func TestHandleLogout_ClearsCookieAndIsIdempotent(t *testing.T) {
	router := newAuthRouter(t)

	// Logout without ever logging in still succeeds — clearing an absent
	// cookie is a no-op, not an error.
	for i := 0; i < 2; i++ {
		rr := postJSON(t, router, "/api/auth/logout", ``)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Logged out successfully"}`, rr.Body.String())

		var cleared *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.CookieName {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Less(t, cleared.MaxAge, 0, "logout cookie must expire immediately")
		assert.Empty(t, cleared.Value)
	}
}

// =========================================================================
// USERS (admin gate)
// =========================================================================

func TestHandleListUsers_NonAdminForbidden(t *testing.T) {
	router := newAuthRouter(t)

	s := register(t, router, "fan", "fan@gmail.com", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/users", nil)
	req.AddCookie(s.cookie)
	req.Header.Set(auth.CSRFHeader, s.CSRFToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Admin access required"}`, rr.Body.String())
}

func TestHandleListUsers_AdminSeesEveryone(t *testing.T) {
	router := newAuthRouter(t)

	register(t, router, "fan", "fan@gmail.com", "secret1")
	admin := register(t, router, "coach", "coach@anakena.cl", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/users", nil)
	req.AddCookie(admin.cookie)
	req.Header.Set(auth.CSRFHeader, admin.CSRFToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.NotContains(t, body, "password")

	var users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &users))
	assert.Len(t, users, 2)
}

func TestHandleListUsers_NoSession(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
