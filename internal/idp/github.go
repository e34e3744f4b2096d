package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/azhaanglitch/smart-accident-detector/internal/log"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubProvider implements Provider for GitHub OAuth. GitHub is plain
// OAuth 2.0 (not OIDC) and verified emails often live behind a separate
// API resource rather than on the profile.
type GitHubProvider struct {
	config     oauth2.Config
	apiBaseURL string // defaults to https://api.github.com, overridden in tests
}

// githubUserResponse represents GitHub's user API response.
type githubUserResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// githubEmailResponse represents an email from GitHub's emails API.
type githubEmailResponse struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// NewGitHubProvider creates a new GitHub OAuth provider.
func NewGitHubProvider(clientID, clientSecret, redirectURI string) *GitHubProvider {
	return &GitHubProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: "https://api.github.com",
	}
}

// Type returns the provider type.
func (p *GitHubProvider) Type() string {
	return "github"
}

// AuthURL generates the authorization URL.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens. The state
// is echoed in the token request body alongside the code.
func (p *GitHubProvider) ExchangeCode(ctx context.Context, code, state string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code, oauth2.SetAuthURLParam("state", state))
}

// Identity fetches the user profile, then the email list when the
// profile has no public email. Login never fails for want of an email:
// the identity is simply issued without one.
func (p *GitHubProvider) Identity(ctx context.Context, token *oauth2.Token) (session.Identity, error) {
	client := p.config.Client(ctx, token)

	user, err := p.fetchUser(ctx, client)
	if err != nil {
		return session.Identity{}, err
	}
	if user.ID == 0 || user.Login == "" {
		return session.Identity{}, fmt.Errorf("%w: missing id or login", ErrIncompleteProfile)
	}

	email := user.Email
	if email == "" {
		email, err = p.fetchEmail(ctx, client)
		if err != nil {
			log.LogWarnWithFields("idp", "Email lookup failed, issuing session without email", map[string]any{
				"provider": "github",
				"error":    err.Error(),
			})
			email = ""
		}
	}

	return session.Identity{
		ID:        strconv.FormatInt(user.ID, 10),
		Login:     user.Login,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Email:     email,
	}, nil
}

func (p *GitHubProvider) fetchUser(ctx context.Context, client *http.Client) (*githubUserResponse, error) {
	resp, err := apiGet(ctx, client, p.apiBaseURL+"/user")
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user: status %d", resp.StatusCode)
	}

	var user githubUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// fetchEmail returns the primary email when one is marked, else the
// first entry, else the empty string.
func (p *GitHubProvider) fetchEmail(ctx context.Context, client *http.Client) (string, error) {
	resp, err := apiGet(ctx, client, p.apiBaseURL+"/user/emails")
	if err != nil {
		return "", fmt.Errorf("failed to get emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get emails: status %d", resp.StatusCode)
	}

	var emails []githubEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("failed to decode emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

// apiGet issues a GET with the access token carried by client's
// transport and an explicit User-Agent.
func apiGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return client.Do(req)
}
