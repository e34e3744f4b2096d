package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleProvider_Type(t *testing.T) {
	provider := NewGoogleProvider("client-id", "client-secret", "https://example.com/callback")
	assert.Equal(t, "google", provider.Type())
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	provider := NewGoogleProvider("client-id", "client-secret", "https://example.com/callback")

	authURL := provider.AuthURL("test-state")

	assert.Contains(t, authURL, "accounts.google.com")
	assert.Contains(t, authURL, "state=test-state")
	assert.Contains(t, authURL, "client_id=client-id")
}

func TestGoogleProvider_Identity(t *testing.T) {
	tests := []struct {
		name           string
		userResp       googleUserInfoResponse
		expectedLogin  string
		expectedEmail  string
		wantErr        string
		wantIncomplete bool
	}{
		{
			name: "verified_email",
			userResp: googleUserInfoResponse{
				ID:            "108123",
				Email:         "alice@gmail.com",
				VerifiedEmail: true,
				Name:          "Alice Example",
				Picture:       "https://lh3.googleusercontent.com/alice",
			},
			expectedLogin: "alice",
			expectedEmail: "alice@gmail.com",
		},
		{
			name: "unverified_email_omitted_from_session",
			userResp: googleUserInfoResponse{
				ID:            "108123",
				Email:         "alice@gmail.com",
				VerifiedEmail: false,
				Name:          "Alice Example",
			},
			expectedLogin: "alice",
			expectedEmail: "",
		},
		{
			name: "no_email_falls_back_to_name",
			userResp: googleUserInfoResponse{
				ID:   "108123",
				Name: "Alice Example",
			},
			expectedLogin: "Alice Example",
			expectedEmail: "",
		},
		{
			name:           "missing_id",
			userResp:       googleUserInfoResponse{Email: "alice@gmail.com", VerifiedEmail: true},
			wantErr:        "missing id",
			wantIncomplete: true,
		},
		{
			name:           "neither_email_nor_name",
			userResp:       googleUserInfoResponse{ID: "108123"},
			wantErr:        "neither email nor name",
			wantIncomplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(tt.userResp))
			}))
			defer server.Close()

			provider := &GoogleProvider{
				config:      oauth2.Config{ClientID: "test-client"},
				userInfoURL: server.URL,
			}

			identity, err := provider.Identity(context.Background(), &oauth2.Token{AccessToken: "test-token"})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantIncomplete, errors.Is(err, ErrIncompleteProfile))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLogin, identity.Login)
			assert.Equal(t, tt.expectedEmail, identity.Email)
			assert.Equal(t, tt.userResp.ID, identity.ID)
		})
	}
}

func TestGoogleProvider_Identity_UserInfoError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := &GoogleProvider{
		config:      oauth2.Config{ClientID: "test-client"},
		userInfoURL: server.URL,
	}

	_, err := provider.Identity(context.Background(), &oauth2.Token{AccessToken: "test-token"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.False(t, errors.Is(err, ErrIncompleteProfile))
}
