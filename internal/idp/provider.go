package idp

import (
	"context"
	"errors"

	"github.com/azhaanglitch/smart-accident-detector/internal/session"
	"golang.org/x/oauth2"
)

// userAgent is sent on provider API calls. GitHub rejects requests
// without a User-Agent header.
const userAgent = "smart-accident-detector"

// ErrIncompleteProfile reports a provider profile missing its core
// id or login fields. It is the one identity failure the user caused
// by what their account looks like, as opposed to a transport fault.
var ErrIncompleteProfile = errors.New("incomplete profile")

// Provider abstracts the identity provider side of the login flow.
type Provider interface {
	// Type returns the provider type identifier ("github" or "google").
	Type() string

	// AuthURL generates the authorization URL carrying the given
	// anti-CSRF state.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for an access
	// token. The state the code was issued with rides along in the
	// token request body.
	ExchangeCode(ctx context.Context, code, state string) (*oauth2.Token, error)

	// Identity fetches the user's profile with the access token. A
	// missing email is tolerated; a missing id or login is an
	// ErrIncompleteProfile.
	Identity(ctx context.Context, token *oauth2.Token) (session.Identity, error)
}
