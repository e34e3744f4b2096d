package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/azhaanglitch/smart-accident-detector/internal/emailutil"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProvider implements Provider for Google OAuth. Google includes
// the verified email directly in the userinfo response, so no second
// email resource is needed.
type GoogleProvider struct {
	config      oauth2.Config
	userInfoURL string // overridden in tests
}

// googleUserInfoResponse represents Google's v2 userinfo response.
type googleUserInfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleProvider creates a new Google OAuth provider.
func NewGoogleProvider(clientID, clientSecret, redirectURI string) *GoogleProvider {
	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// Type returns the provider type.
func (p *GoogleProvider) Type() string {
	return "google"
}

// AuthURL generates the authorization URL.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens. The state
// is echoed in the token request body alongside the code.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code, state string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code, oauth2.SetAuthURLParam("state", state))
}

// Identity fetches user information from Google's userinfo endpoint.
// Google accounts have no login handle, so the email's local part
// stands in for one.
func (p *GoogleProvider) Identity(ctx context.Context, token *oauth2.Token) (session.Identity, error) {
	client := p.config.Client(ctx, token)

	resp, err := apiGet(ctx, client, p.userInfoURL)
	if err != nil {
		return session.Identity{}, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return session.Identity{}, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}

	var user googleUserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return session.Identity{}, fmt.Errorf("failed to decode user info: %w", err)
	}

	if user.ID == "" {
		return session.Identity{}, fmt.Errorf("%w: userinfo is missing id", ErrIncompleteProfile)
	}

	login := emailutil.LocalPart(user.Email)
	if login == "" {
		login = user.Name
	}
	if login == "" {
		return session.Identity{}, fmt.Errorf("%w: userinfo has neither email nor name", ErrIncompleteProfile)
	}

	email := user.Email
	if !user.VerifiedEmail {
		email = ""
	}

	return session.Identity{
		ID:        user.ID,
		Login:     login,
		Name:      user.Name,
		AvatarURL: user.Picture,
		Email:     email,
	}, nil
}
