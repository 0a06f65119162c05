// Package client is a Go client for the club server's API. Its centre
// is the SessionManager, which owns the session cookie and its CSRF
// pair, persists them across process runs, and reconciles the cached
// session against the server when asked.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/anakena/club-server/internal/auth"
)

// ErrNoSession reports that no session is active: either nobody logged
// in, or the server rejected the cached session during reconciliation.
var ErrNoSession = errors.New("no active session")

// User is the client-side view of an account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// SessionManager drives the authentication endpoints and keeps the
// resulting session usable across requests and across process runs.
//
// The session has two halves that travel on different channels: the
// token rides in a cookie (handled by the cookie jar), the CSRF token
// rides in a request header (attached by authedRequest). Both are
// snapshotted to a cache file so a new process can resume without
// logging in again.
//
// Safe for concurrent use.
type SessionManager struct {
	baseURL    *url.URL
	cachePath  string
	httpClient *http.Client

	mu      sync.Mutex
	current *cachedSession
}

// NewSessionManager returns a manager for the server at baseURL,
// persisting session state to cachePath. If a previous run left a
// cached session, it is loaded optimistically; call Reconcile to find
// out whether the server still honours it.
func NewSessionManager(baseURL, cachePath string) (*SessionManager, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	m := &SessionManager{
		baseURL:   parsed,
		cachePath: cachePath,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}

	cached, err := loadCache(cachePath)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		m.current = cached
		jar.SetCookies(parsed, []*http.Cookie{{
			Name:  auth.CookieName,
			Value: cached.Token,
		}})
	}

	return m, nil
}

// CurrentUser returns the cached user snapshot without touching the
// network. The snapshot is optimistic: the server may have expired the
// session since it was written. Reconcile gives the authoritative answer.
func (m *SessionManager) CurrentUser() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return User{}, false
	}
	return User{ID: m.current.UserID, Username: m.current.Username, Email: m.current.Email}, true
}

// sessionResponse mirrors the body of a successful register or login.
type sessionResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrfToken"`
}

// Register creates an account and starts a session for it.
func (m *SessionManager) Register(ctx context.Context, username, email, password string) (User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return m.startSession(ctx, "/api/auth/register", body)
}

// Login starts a session for an existing account.
func (m *SessionManager) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	return m.startSession(ctx, "/api/auth/login", body)
}

func (m *SessionManager) startSession(ctx context.Context, path string, body any) (User, error) {
	var resp sessionResponse
	if err := m.doJSON(ctx, http.MethodPost, path, body, &resp, ""); err != nil {
		return User{}, err
	}

	// The jar has the Set-Cookie by now; pull the raw value out so it
	// can be persisted alongside the CSRF token.
	token := m.sessionCookieValue()
	if token == "" {
		return User{}, errors.New("server response missing session cookie")
	}

	cached := &cachedSession{
		Token:     token,
		CSRFToken: resp.CSRFToken,
		UserID:    resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
	}

	m.mu.Lock()
	m.current = cached
	m.mu.Unlock()

	if err := saveCache(m.cachePath, cached); err != nil {
		return User{}, err
	}
	return User{ID: resp.ID, Username: resp.Username, Email: resp.Email}, nil
}

// Reconcile asks the server whether the cached session is still valid.
// On success the local user snapshot is refreshed from the server's
// answer. If the server says 401 the cache is cleared and ErrNoSession
// is returned, so callers can fall back to a login prompt.
func (m *SessionManager) Reconcile(ctx context.Context) (User, error) {
	m.mu.Lock()
	csrf := ""
	if m.current != nil {
		csrf = m.current.CSRFToken
	}
	m.mu.Unlock()

	if csrf == "" {
		return User{}, ErrNoSession
	}

	var user User
	err := m.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user, csrf)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			m.forget()
			return User{}, ErrNoSession
		}
		return User{}, err
	}

	m.mu.Lock()
	if m.current != nil {
		m.current.UserID = user.ID
		m.current.Username = user.Username
		m.current.Email = user.Email
		_ = saveCache(m.cachePath, m.current)
	}
	m.mu.Unlock()

	return user, nil
}

// Logout ends the session on the server and forgets it locally. The
// local state is cleared even when the server call fails: the token may
// already be expired, and a logout that leaves credentials on disk is
// worse than one that leaves a dangling server session.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	csrf := ""
	if m.current != nil {
		csrf = m.current.CSRFToken
	}
	m.mu.Unlock()

	var serverErr error
	if csrf != "" {
		serverErr = m.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil, "")
	}

	if err := m.forget(); err != nil {
		return err
	}
	return serverErr
}

// ListUsers fetches the account directory. The server only answers for
// admin sessions.
func (m *SessionManager) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.Lock()
	csrf := ""
	if m.current != nil {
		csrf = m.current.CSRFToken
	}
	m.mu.Unlock()

	if csrf == "" {
		return nil, ErrNoSession
	}

	var users []User
	if err := m.doJSON(ctx, http.MethodGet, "/api/auth/users", nil, &users, csrf); err != nil {
		return nil, err
	}
	return users, nil
}

// forget drops the in-memory session, the cookie jar and the cache file.
func (m *SessionManager) forget() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	// Expire the cookie in the jar by overwriting it.
	m.httpClient.Jar.SetCookies(m.baseURL, []*http.Cookie{{
		Name:   auth.CookieName,
		Value:  "",
		MaxAge: -1,
	}})

	return clearCache(m.cachePath)
}

// doJSON performs one request against the API. A non-empty csrf is sent
// in the x-csrf-token header; the session cookie always travels via the
// jar. Responses outside 2xx decode into an *APIError.
func (m *SessionManager) doJSON(ctx context.Context, method, path string, body, out any, csrf string) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	target := m.baseURL.JoinPath(path).String()

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrf != "" {
		req.Header.Set(auth.CSRFHeader, csrf)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}
	return nil
}

func (m *SessionManager) sessionCookieValue() string {
	for _, c := range m.httpClient.Jar.Cookies(m.baseURL) {
		if c.Name == auth.CookieName {
			return c.Value
		}
	}
	return ""
}
