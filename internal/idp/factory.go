package idp

import (
	"fmt"

	"github.com/azhaanglitch/smart-accident-detector/internal/config"
)

// NewProvider creates a Provider for the configured OAuth provider.
func NewProvider(cfg config.Config) (Provider, error) {
	switch cfg.Provider {
	case "github":
		return NewGitHubProvider(cfg.ClientID, string(cfg.ClientSecret), cfg.RedirectURI()), nil
	case "google":
		return NewGoogleProvider(cfg.ClientID, string(cfg.ClientSecret), cfg.RedirectURI()), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
}
