package cookie

import (
	"net/http"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/log"
)

// Cookie names used across the login flow
const (
	// StateCookie holds the anti-CSRF state between the login redirect
	// and the provider callback.
	StateCookie = "oauth_state"

	// SessionCookie holds the encoded session identity. The dashboard
	// reads it client-side, so it is not HttpOnly.
	SessionCookie = "session"
)

// SetState sets the short-lived anti-CSRF state cookie. It is scoped to
// the whole site and kept away from script.
func SetState(w http.ResponseWriter, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})

	log.LogDebugWithFields("cookie", "State cookie set", map[string]any{
		"maxAge": maxAge.String(),
		"secure": secure,
	})
}

// SetSession sets the session cookie carrying the encoded identity.
func SetSession(w http.ResponseWriter, value string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: false, // the dashboard reads the display name from it
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})

	log.LogDebugWithFields("cookie", "Session cookie set", map[string]any{
		"maxAge": maxAge.String(),
		"secure": secure,
	})
}

// Clear removes a cookie by an explicit expiry in the past. Once a state
// cookie is consumed at the callback it must never be replayable.
func Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

// ClearState removes the anti-CSRF state cookie
func ClearState(w http.ResponseWriter) {
	Clear(w, StateCookie)
}

// ClearSession removes the session cookie
func ClearSession(w http.ResponseWriter) {
	Clear(w, SessionCookie)
}

// Get retrieves a cookie value from the request
func Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// GetState retrieves the anti-CSRF state cookie value
func GetState(r *http.Request) (string, error) {
	return Get(r, StateCookie)
}

// GetSession retrieves the session cookie value
func GetSession(r *http.Request) (string, error) {
	return Get(r, SessionCookie)
}
