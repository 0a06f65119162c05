package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string
// "userID" can read or shadow your value. A package-private type prevents
// collisions: only this package can create a key of type contextKey.
type contextKey string

const userIDKey contextKey = "userID"

// RequireSession is the session verifier: the one middleware guarding every
// protected route. The source system had two slightly divergent copies of
// this check; they are unified here behind a single contract.
//
// Per request, in order, terminal outcomes only (failures are never retried):
//
//  1. Extract — session token from the cookie, CSRF secret from the header.
//     Missing cookie or missing header → 401.
//  2. Verify — signature, expiry, issuer, algorithm. Expired and invalid are
//     distinct causes (the client re-logs silently on expiry, hard-logs-out
//     on a forged token) but both → 401.
//  3. Cross-check — the header secret must equal the secret embedded in the
//     token, exact string match. Mismatch → 401.
//  4. Admit — subject id goes into the request context for handlers.
//
// No state is retained between requests; every request reruns the full check.
func RequireSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				// http.ErrNoCookie — the browser sent no session at all
				unauthorized(w, "Authentication token missing, please log in")
				return
			}

			headerCSRF := r.Header.Get(CSRFHeader)
			if headerCSRF == "" {
				unauthorized(w, "CSRF token missing")
				return
			}

			session, err := tokens.Verify(cookie.Value)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					unauthorized(w, "Token expired, please log in again")
				} else {
					unauthorized(w, "Invalid token")
				}
				return
			}

			// The cookie alone decoding successfully is not enough: the
			// caller must also present the secret only the real client has.
			if session.CSRF != headerCSRF {
				unauthorized(w, "Invalid CSRF token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request carried no valid session —
// which on a RequireSession-protected route should never happen.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// unauthorized writes the 401 JSON body the frontend expects. The middleware
// can't reach the handler package's response helpers without an import cycle,
// so it carries its own minimal writer.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
