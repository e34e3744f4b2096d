package idp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGitHubProvider_Type(t *testing.T) {
	provider := NewGitHubProvider("client-id", "client-secret", "https://example.com/callback")
	assert.Equal(t, "github", provider.Type())
}

func TestGitHubProvider_AuthURL(t *testing.T) {
	provider := NewGitHubProvider("client-id", "client-secret", "https://example.com/callback")

	authURL := provider.AuthURL("test-state")

	assert.Contains(t, authURL, "github.com")
	assert.Contains(t, authURL, "state=test-state")
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "redirect_uri=https%3A%2F%2Fexample.com%2Fcallback")
}

func TestGitHubProvider_Identity(t *testing.T) {
	tests := []struct {
		name          string
		userResp      githubUserResponse
		emailsResp    []githubEmailResponse
		expectedEmail string
	}{
		{
			name: "user_with_public_email",
			userResp: githubUserResponse{
				ID:        12345,
				Login:     "alice",
				Email:     "a@x.com",
				Name:      "Alice Example",
				AvatarURL: "https://github.com/avatar.jpg",
			},
			expectedEmail: "a@x.com",
		},
		{
			name: "primary_email_wins_over_first_in_list",
			userResp: githubUserResponse{
				ID:    1,
				Login: "alice",
			},
			emailsResp: []githubEmailResponse{
				{Email: "b@x.com", Primary: false, Verified: true},
				{Email: "a@x.com", Primary: true, Verified: true},
			},
			expectedEmail: "a@x.com",
		},
		{
			name: "no_primary_falls_back_to_first_entry",
			userResp: githubUserResponse{
				ID:    1,
				Login: "alice",
			},
			emailsResp: []githubEmailResponse{
				{Email: "first@x.com", Primary: false},
				{Email: "second@x.com", Primary: false},
			},
			expectedEmail: "first@x.com",
		},
		{
			name: "empty_email_list_issues_identity_without_email",
			userResp: githubUserResponse{
				ID:    1,
				Login: "alice",
			},
			emailsResp:    []githubEmailResponse{},
			expectedEmail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NotEmpty(t, r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "application/json")

				switch r.URL.Path {
				case "/user":
					require.NoError(t, json.NewEncoder(w).Encode(tt.userResp))
				case "/user/emails":
					require.NoError(t, json.NewEncoder(w).Encode(tt.emailsResp))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()

			provider := &GitHubProvider{
				config:     oauth2.Config{ClientID: "test-client"},
				apiBaseURL: server.URL,
			}

			token := &oauth2.Token{AccessToken: "test-token"}
			identity, err := provider.Identity(context.Background(), token)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedEmail, identity.Email)
			assert.Equal(t, tt.userResp.Login, identity.Login)
			assert.NotEmpty(t, identity.ID)
		})
	}
}

func TestGitHubProvider_Identity_EmailFetchFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(githubUserResponse{ID: 7, Login: "alice"}))
		case "/user/emails":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := &GitHubProvider{
		config:     oauth2.Config{ClientID: "test-client"},
		apiBaseURL: server.URL,
	}

	identity, err := provider.Identity(context.Background(), &oauth2.Token{AccessToken: "test-token"})

	require.NoError(t, err, "email failure must not abort the login")
	assert.Equal(t, "alice", identity.Login)
	assert.Empty(t, identity.Email)
}

func TestGitHubProvider_Identity_MissingCoreFields(t *testing.T) {
	tests := []struct {
		name     string
		userResp githubUserResponse
	}{
		{"missing_id", githubUserResponse{Login: "alice"}},
		{"missing_login", githubUserResponse{ID: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(tt.userResp))
			}))
			defer server.Close()

			provider := &GitHubProvider{
				config:     oauth2.Config{ClientID: "test-client"},
				apiBaseURL: server.URL,
			}

			_, err := provider.Identity(context.Background(), &oauth2.Token{AccessToken: "test-token"})

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIncompleteProfile)
			assert.Contains(t, err.Error(), "missing id or login")
		})
	}
}

func TestGitHubProvider_Identity_ProfileError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := &GitHubProvider{
		config:     oauth2.Config{ClientID: "test-client"},
		apiBaseURL: server.URL,
	}

	_, err := provider.Identity(context.Background(), &oauth2.Token{AccessToken: "bad-token"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.NotErrorIs(t, err, ErrIncompleteProfile)
}

func TestGitHubProvider_ExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-code", r.FormValue("code"))
		assert.Equal(t, "test-state", r.FormValue("state"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"access_token":"gho_token","token_type":"bearer"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	provider := &GitHubProvider{
		config: oauth2.Config{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			Endpoint:     oauth2.Endpoint{TokenURL: server.URL + "/token"},
		},
	}

	token, err := provider.ExchangeCode(context.Background(), "test-code", "test-state")
	require.NoError(t, err)
	assert.Equal(t, "gho_token", token.AccessToken)
}
