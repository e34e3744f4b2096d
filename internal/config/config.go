package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/urlutil"
	"github.com/caarlos0/env/v11"
)

// Secret is a string that redacts itself when printed or marshaled,
// so client secrets and signing keys never end up in logs.
type Secret string

// String implements fmt.Stringer to redact the secret
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "***"
}

// MarshalJSON implements json.Marshaler to prevent secrets in JSON logs
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("***")
}

// Config holds the full runtime configuration, loaded once at startup.
type Config struct {
	// BaseURL is the public origin of this deployment. The OAuth
	// redirect URI is derived from it, so it must match what the
	// provider has registered.
	BaseURL string `env:"BASE_URL"`

	Addr        string `env:"ADDR" envDefault:":8080"`
	LandingPath string `env:"LANDING_PATH" envDefault:"/"`

	Provider     string `env:"OAUTH_PROVIDER" envDefault:"github"`
	ClientID     string `env:"OAUTH_CLIENT_ID"`
	ClientSecret Secret `env:"OAUTH_CLIENT_SECRET"`

	StateTTL   time.Duration `env:"STATE_TTL" envDefault:"10m"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// SessionSigningKey switches the session cookie codec to the
	// HMAC-signed variant when set.
	SessionSigningKey Secret `env:"SESSION_SIGNING_KEY"`

	PredictAPIURL string `env:"PREDICT_API_URL"`
}

// Load parses configuration from the environment and validates it.
// Missing required values are a startup error, never a per-request 500.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks config invariants that env parsing cannot express.
func Validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute URL, got %q", cfg.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BASE_URL scheme must be http or https, got %q", u.Scheme)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.ClientID == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID is required")
	}
	if cfg.ClientSecret == "" {
		return fmt.Errorf("OAUTH_CLIENT_SECRET is required")
	}

	switch cfg.Provider {
	case "github", "google":
	default:
		return fmt.Errorf("unknown OAuth provider: %s", cfg.Provider)
	}

	if !strings.HasPrefix(cfg.LandingPath, "/") {
		return fmt.Errorf("LANDING_PATH must start with /, got %q", cfg.LandingPath)
	}
	if cfg.StateTTL <= 0 {
		return fmt.Errorf("STATE_TTL must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// IsHTTPS reports whether the public origin is served over TLS.
// Cookie Secure flags key off this.
func (c *Config) IsHTTPS() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

// RedirectURI is the callback URL registered with the provider. It must
// be byte-identical between the login and callback legs of the flow.
func (c *Config) RedirectURI() string {
	return urlutil.MustJoinPath(c.BaseURL, "callback")
}
