package auth

import (
	"net/http"
	"strings"
	"time"
)

// CookieName carries the session token.
const CookieName = "session_token"

// ExtractToken returns the request's session token. The cookie wins over an
// Authorization: Bearer header; "" means no token was sent.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

// Cookies writes the session cookie. Secure cookies are cross-site
// (SameSite=None); insecure ones, for plain-HTTP development, are Lax.
type Cookies struct {
	Secure bool
	MaxAge time.Duration
}

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (c Cookies) Set(w http.ResponseWriter, token string) {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	})
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	})
}
