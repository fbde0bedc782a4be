// Package session manages the two HTTP-only cookies that are the only
// session state this layer keeps. The bearer token is opaque; the remote
// API validates it on every forwarded call.
package session

import (
	"net/http"
	"time"
)

const (
	// TokenCookie holds the bearer token for the remote API.
	TokenCookie = "auth_token"
	// UsernameCookie holds the display name. Kept HttpOnly so it can only
	// be read server-side.
	UsernameCookie = "username"

	// TTL is the session cookie lifetime.
	TTL = 24 * time.Hour
)

// Manager reads and writes the session cookies. secure controls the Secure
// attribute (on in production only).
type Manager struct {
	secure bool
}

func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// Token returns the bearer token from the request, or "" when absent. A
// request is authenticated iff this is non-empty.
func (m *Manager) Token(r *http.Request) string {
	c, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// Username returns the display username cookie, or "" when absent.
func (m *Manager) Username(r *http.Request) string {
	c, err := r.Cookie(UsernameCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// Establish sets both session cookies on a successful login.
func (m *Manager) Establish(w http.ResponseWriter, token, username string) {
	http.SetCookie(w, m.cookie(TokenCookie, token, int(TTL.Seconds())))
	http.SetCookie(w, m.cookie(UsernameCookie, username, int(TTL.Seconds())))
}

// Clear expires both session cookies immediately.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(TokenCookie, "", -1))
	http.SetCookie(w, m.cookie(UsernameCookie, "", -1))
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	}
}
