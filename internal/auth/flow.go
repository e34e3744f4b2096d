package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/config"
	"github.com/azhaanglitch/smart-accident-detector/internal/crypto"
	"github.com/azhaanglitch/smart-accident-detector/internal/idp"
	"github.com/azhaanglitch/smart-accident-detector/internal/log"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
	"golang.org/x/oauth2"
)

// providerTimeout bounds each outbound provider call. There is no retry
// policy: a transient provider failure surfaces to the user, who retries
// by logging in again, which mints a fresh state token.
const providerTimeout = 10 * time.Second

// Flow implements the authorization-code flow against one configured
// provider. Each login and each callback is one independent, stateless
// request; the only state between the two legs is the browser's cookie.
type Flow struct {
	cfg        config.Config
	provider   idp.Provider
	httpClient *http.Client
}

// NewFlow creates a login flow for the configured provider.
func NewFlow(cfg config.Config, provider idp.Provider) *Flow {
	return &Flow{
		cfg:        cfg,
		provider:   provider,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

// Start mints a fresh state token and returns it with the provider
// authorization URL carrying it. The caller stores the token in the
// state cookie before redirecting.
func (f *Flow) Start() (state, authURL string, err error) {
	if f.cfg.ClientID == "" {
		return "", "", newError(KindConfiguration, "login is not configured", nil)
	}

	state, err = crypto.GenerateSecureToken()
	if err != nil {
		return "", "", newError(KindInternal, "authentication failed, please try again", err)
	}

	return state, f.provider.AuthURL(state), nil
}

// Callback runs the callback leg: CSRF check, code/token exchange,
// identity fetch. The CSRF check happens before any network call.
func (f *Flow) Callback(ctx context.Context, code, state, cookieState string) (session.Identity, error) {
	if code == "" || state == "" {
		return session.Identity{}, newError(KindInvalidRequest, "missing code or state, please try logging in again", nil)
	}

	// Exact byte match, no normalization. An absent cookie fails the
	// same way a mismatched one does.
	if cookieState == "" || state != cookieState {
		log.LogWarnWithFields("auth", "OAuth state mismatch, possible CSRF attempt", map[string]any{
			"provider":  f.provider.Type(),
			"hasCookie": cookieState != "",
		})
		return session.Identity{}, newError(KindCSRFMismatch, "invalid state, please try logging in again", nil)
	}

	// The oauth2 package picks its transport from the context, which is
	// how the timeout-bounded client gets applied to both legs.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	exchangeCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	token, err := f.provider.ExchangeCode(exchangeCtx, code, state)
	if err != nil {
		return session.Identity{}, newError(KindTokenExchange, exchangeFailureMessage(err), err)
	}
	if token.AccessToken == "" {
		return session.Identity{}, newError(KindTokenExchange, "provider returned no access token", nil)
	}

	identityCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	identity, err := f.provider.Identity(identityCtx, token)
	if err != nil {
		// A profile the provider served but that lacks core fields is
		// the user's problem; everything else on this leg (network
		// failure, timeout, provider 5xx) is ours.
		if errors.Is(err, idp.ErrIncompleteProfile) {
			return session.Identity{}, newError(KindProfileFetch, "could not fetch your profile, please try logging in again", err)
		}
		return session.Identity{}, newError(KindInternal, "authentication failed, please try again", err)
	}

	return identity, nil
}

// exchangeFailureMessage derives a short user-visible message from the
// provider's error description when one is present. Token values never
// appear here.
func exchangeFailureMessage(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
		return "provider rejected the login: " + retrieveErr.ErrorDescription
	}
	return "could not complete the login, please try again"
}
