package server

import (
	"errors"
	"net/http"

	"github.com/azhaanglitch/smart-accident-detector/internal/auth"
	"github.com/azhaanglitch/smart-accident-detector/internal/config"
	"github.com/azhaanglitch/smart-accident-detector/internal/cookie"
	jsonwriter "github.com/azhaanglitch/smart-accident-detector/internal/json"
	"github.com/azhaanglitch/smart-accident-detector/internal/log"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
)

// AuthHandlers provides the login, callback, logout and session
// endpoints with dependency injection
type AuthHandlers struct {
	cfg   config.Config
	flow  *auth.Flow
	codec session.Codec
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(cfg config.Config, flow *auth.Flow, codec session.Codec) *AuthHandlers {
	return &AuthHandlers{
		cfg:   cfg,
		flow:  flow,
		codec: codec,
	}
}

// LoginHandler starts the provider login: mints the anti-CSRF state,
// stores it in the state cookie and redirects to the provider.
func (h *AuthHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state, authURL, err := h.flow.Start()
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	cookie.SetState(w, state, h.cfg.StateTTL, h.cfg.IsHTTPS())

	log.LogInfoWithFields("auth", "Login initiated", map[string]any{
		"provider": h.cfg.Provider,
	})

	http.Redirect(w, r, authURL, http.StatusFound)
}

// CallbackHandler finishes the provider login: verifies the state
// binding, exchanges the code, fetches the identity and issues the
// session cookie. The state cookie is cleared on every outcome so a
// state value is consumable at most once.
func (h *AuthHandlers) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cookieState, _ := cookie.GetState(r)

	identity, err := h.flow.Callback(r.Context(), query.Get("code"), query.Get("state"), cookieState)
	cookie.ClearState(w)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	value, err := h.codec.Encode(identity)
	if err != nil {
		log.LogError("Failed to encode session cookie: %v", err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	cookie.SetSession(w, value, h.cfg.SessionTTL, h.cfg.IsHTTPS())

	log.LogInfoWithFields("auth", "Login completed", map[string]any{
		"provider": h.cfg.Provider,
		"login":    identity.Login,
	})

	http.Redirect(w, r, h.cfg.LandingPath, http.StatusFound)
}

// LogoutHandler clears the session cookie and sends the browser back to
// the login screen.
func (h *AuthHandlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// SessionHandler reports the current session identity as JSON. A
// missing or undecodable cookie means "not logged in", never a server
// error; bad cookies are cleared on the way out.
func (h *AuthHandlers) SessionHandler(w http.ResponseWriter, r *http.Request) {
	value, err := cookie.GetSession(r)
	if err != nil {
		jsonwriter.WriteUnauthorized(w, "not logged in")
		return
	}

	identity, err := h.codec.Decode(value)
	if err != nil {
		log.LogDebugWithFields("auth", "Discarding undecodable session cookie", map[string]any{
			"error": err.Error(),
		})
		cookie.ClearSession(w)
		jsonwriter.WriteUnauthorized(w, "not logged in")
		return
	}

	if err := jsonwriter.Write(w, identity); err != nil {
		log.LogError("Failed to write session response: %v", err)
	}
}

// writeAuthError converts a flow error into a plain-text HTTP response.
// User-visible messages never include token or secret values.
func (h *AuthHandlers) writeAuthError(w http.ResponseWriter, err error) {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		log.LogError("Unclassified auth failure: %v", err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	if authErr.Status() >= http.StatusInternalServerError {
		log.LogErrorWithFields("auth", "Login flow failed", map[string]any{
			"kind":  string(authErr.Kind),
			"error": authErr.Error(),
		})
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	log.LogWarnWithFields("auth", "Login flow rejected", map[string]any{
		"kind":  string(authErr.Kind),
		"error": authErr.Error(),
	})
	http.Error(w, authErr.Message, authErr.Status())
}
