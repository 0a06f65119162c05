package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// protectedProbe returns a handler chain where RequireSession guards a
// trivial handler that reports the userID it found in the context.
func protectedProbe(t *testing.T, ts *TokenService) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("handler ran without a userID in context")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"userId": userID})
	})
	return RequireSession(ts)(inner)
}

// doProtected performs a request against the probe with the given cookie
// and header values. Empty string means "omit entirely".
func doProtected(t *testing.T, handler http.Handler, cookieValue, headerValue string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookieValue})
	}
	if headerValue != "" {
		req.Header.Set(CSRFHeader, headerValue)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// errorMessage decodes the {"error": ...} body of a rejection.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error
}

// =========================================================================
// HAPPY PATH
// =========================================================================

func TestRequireSession_ValidSessionAdmitted(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	token, csrf, err := ts.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rec := doProtected(t, handler, token, csrf)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.UserID != "user-42" {
		t.Errorf("context userID = %q, want %q", body.UserID, "user-42")
	}
}

// =========================================================================
// REJECTION BRANCHES
// =========================================================================

func TestRequireSession_MissingCookie(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	rec := doProtected(t, handler, "", "some-csrf-value")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Authentication token missing, please log in" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_MissingCSRFHeader(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	// A perfectly valid cookie is not enough on its own
	token, _, _ := ts.Issue("user-42")
	rec := doProtected(t, handler, token, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "CSRF token missing" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_WrongCSRFHeader(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	token, _, _ := ts.Issue("user-42")
	rec := doProtected(t, handler, token, "0000000000000000000000000000000000000000000000000000000000000000")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Invalid CSRF token" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_CSRFFromDifferentSession(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	// Both sessions are individually valid, but the secret of one can
	// never authorize the cookie of the other.
	token1, _, _ := ts.Issue("user-42")
	_, csrf2, _ := ts.Issue("user-42")

	rec := doProtected(t, handler, token1, csrf2)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Invalid CSRF token" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	token, csrf, _ := ts.IssueWithDuration("user-42", -1*time.Minute)
	rec := doProtected(t, handler, token, csrf)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Token expired, please log in again" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_GarbageToken(t *testing.T) {
	ts := newTestTokenService(t)
	handler := protectedProbe(t, ts)

	rec := doProtected(t, handler, "garbage-token", "some-csrf-value")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Invalid token" {
		t.Errorf("error = %q", got)
	}
}

func TestRequireSession_TokenSignedWithOtherSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("a-completely-different-secret!!!")
	handler := protectedProbe(t, ts)

	token, csrf, _ := other.Issue("user-42")
	rec := doProtected(t, handler, token, csrf)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, rec); got != "Invalid token" {
		t.Errorf("error = %q", got)
	}
}

// =========================================================================
// CONTEXT HELPERS
// =========================================================================

func TestUserIDFromContext_AbsentValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() should report absent on a bare context")
	}
}
