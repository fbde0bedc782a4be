package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

// TestEstablish verifies a login sets both cookies HttpOnly with the 24h
// lifetime.
func TestEstablish(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()
	m.Establish(rec, "tok123", "alice")

	cookies := rec.Result().Cookies()
	tok := cookieByName(t, cookies, TokenCookie)
	if tok.Value != "tok123" {
		t.Errorf("auth_token = %q, want tok123", tok.Value)
	}
	if !tok.HttpOnly {
		t.Error("auth_token not HttpOnly")
	}
	if tok.MaxAge != 86400 {
		t.Errorf("auth_token max-age = %d, want 86400", tok.MaxAge)
	}
	if tok.Path != "/" {
		t.Errorf("auth_token path = %q, want /", tok.Path)
	}

	user := cookieByName(t, cookies, UsernameCookie)
	if user.Value != "alice" {
		t.Errorf("username = %q, want alice", user.Value)
	}
	if !user.HttpOnly {
		t.Error("username not HttpOnly")
	}
	if user.MaxAge != 86400 {
		t.Errorf("username max-age = %d, want 86400", user.MaxAge)
	}
}

// TestSecureOnlyInProduction verifies the Secure attribute follows the
// environment.
func TestSecureOnlyInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	NewManager(true).Establish(rec, "t", "u")
	if c := cookieByName(t, rec.Result().Cookies(), TokenCookie); !c.Secure {
		t.Error("production cookie not Secure")
	}

	rec = httptest.NewRecorder()
	NewManager(false).Establish(rec, "t", "u")
	if c := cookieByName(t, rec.Result().Cookies(), TokenCookie); c.Secure {
		t.Error("development cookie marked Secure")
	}
}

// TestClear verifies logout expires both cookies immediately with empty
// values.
func TestClear(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	for _, name := range []string{TokenCookie, UsernameCookie} {
		c := cookieByName(t, cookies, name)
		if c.Value != "" {
			t.Errorf("%s = %q after clear, want empty", name, c.Value)
		}
		if c.MaxAge >= 0 {
			t.Errorf("%s max-age = %d after clear, want immediate expiry", name, c.MaxAge)
		}
	}
}

// TestTokenAndUsername verifies the readers return cookie values, and ""
// when absent — an absent or empty token means unauthenticated.
func TestTokenAndUsername(t *testing.T) {
	m := NewManager(false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := m.Token(r); got != "" {
		t.Errorf("Token = %q without cookie, want empty", got)
	}
	if got := m.Username(r); got != "" {
		t.Errorf("Username = %q without cookie, want empty", got)
	}

	r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok"})
	r.AddCookie(&http.Cookie{Name: UsernameCookie, Value: "alice"})
	if got := m.Token(r); got != "tok" {
		t.Errorf("Token = %q, want tok", got)
	}
	if got := m.Username(r); got != "alice" {
		t.Errorf("Username = %q, want alice", got)
	}
}
