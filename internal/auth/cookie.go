package auth

import "net/http"

// CookieName is the session cookie. HttpOnly keeps it out of reach of page
// script (XSS cannot read it); SameSite=Strict keeps browsers from attaching
// it to any cross-site request at all.
const CookieName = "token"

// CSRFHeader is the request header carrying the client's cached CSRF secret.
// A cross-origin page cannot set a custom header without a CORS preflight
// grant, which is exactly why the verifier demands it alongside the cookie.
const CSRFHeader = "x-csrf-token"

// SessionCookie builds the cookie that transports a freshly issued session
// token. secure should be true in production (HTTPS only); the attribute set
// must stay in lockstep with ClearSessionCookie or browsers will refuse to
// drop the cookie on logout.
func SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearSessionCookie builds the expired cookie that deletes the session
// cookie client-side. Logout is idempotent — clearing a cookie that was
// never set is fine.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
