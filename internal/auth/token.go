// Package auth provides session token issuance and verification for the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers or logs in with email + password
// 2. Server mints a JWT session token with a fresh CSRF secret embedded in it
// 3. The JWT travels in an HttpOnly cookie; the CSRF secret is returned in the
//    response body for the client to cache and replay in the x-csrf-token header
// 4. On every protected call, middleware verifies the JWT from the cookie AND
//    checks the header secret against the one inside the token
//
// WHY BOTH COOKIE AND HEADER?
// Cross-site requests carry cookies automatically, but a third-party page
// cannot read or set a custom header on a cross-origin request. So a forged
// request can present the cookie but never the matching x-csrf-token header.
// Neither check alone authenticates a request — the pairing is the point.
//
// The session is stateless: the server keeps no session store, and a token
// stays valid until its natural expiry even if credentials change afterwards.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the session-token lifetime. Cookie Max-Age matches it.
const TokenTTL = time.Hour

// Distinct verification outcomes. Both map to 401, but the client treats
// them differently: expired prompts a silent re-login, invalid a hard logout.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// TokenService mints and verifies session tokens.
//
// It holds the HMAC secret key used to sign and verify tokens. The secret is
// required startup configuration — there is deliberately no fallback default,
// because a guessable signing key lets anyone mint valid sessions.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// sessionClaims is the JWT payload: the standard registered claims (sub holds
// the user ID, iat/exp bound the session) plus the per-session CSRF secret.
type sessionClaims struct {
	CSRF string `json:"csrf"`
	jwt.RegisteredClaims
}

// Session is the verified content of a session token.
type Session struct {
	UserID string
	CSRF   string
}

// Issue mints a new session for userID: a signed JWT plus the CSRF secret
// embedded in it. A fresh secret is generated on every call — secrets are
// never reused across sessions, so stealing one buys at most one session.
//
// Expiry is iat + 1 hour. Setting the cookie is the endpoint's job, not ours.
func (s *TokenService) Issue(userID string) (token, csrfToken string, err error) {
	csrfToken, err = newCSRFToken()
	if err != nil {
		return "", "", err
	}

	token, err = s.sign(userID, csrfToken, TokenTTL)
	if err != nil {
		return "", "", err
	}
	return token, csrfToken, nil
}

// IssueWithDuration mints a session with a custom lifetime.
// Used by tests to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(userID string, d time.Duration) (token, csrfToken string, err error) {
	csrfToken, err = newCSRFToken()
	if err != nil {
		return "", "", err
	}

	token, err = s.sign(userID, csrfToken, d)
	if err != nil {
		return "", "", err
	}
	return token, csrfToken, nil
}

func (s *TokenService) sign(userID, csrfToken string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := sessionClaims{
		CSRF: csrfToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "club-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a session token string.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "club-server" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Returns ErrTokenExpired for an expired token and ErrTokenInvalid for every
// other failure. The CSRF cross-check against the request header is the
// middleware's responsibility — Verify only hands back what's in the token.
func (s *TokenService) Verify(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("club-server"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrTokenInvalid)
	}
	if c.CSRF == "" {
		return nil, fmt.Errorf("%w: no csrf secret", ErrTokenInvalid)
	}

	return &Session{UserID: c.Subject, CSRF: c.CSRF}, nil
}

// newCSRFToken returns 32 bytes from the platform CSPRNG, hex-encoded
// (64 characters). High entropy matters: the secret is the only thing a
// cross-site attacker cannot obtain.
func newCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating csrf secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
