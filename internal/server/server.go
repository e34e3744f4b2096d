package server

import (
	"net/http"

	"github.com/azhaanglitch/smart-accident-detector/internal/auth"
	"github.com/azhaanglitch/smart-accident-detector/internal/config"
	jsonwriter "github.com/azhaanglitch/smart-accident-detector/internal/json"
	"github.com/azhaanglitch/smart-accident-detector/internal/predict"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
)

// Server assembles the HTTP surface: the login flow endpoints, the
// session endpoint the dashboard polls, and the prediction relay.
type Server struct {
	auth    *AuthHandlers
	predict *PredictHandlers
}

// New creates a Server from its dependencies.
func New(cfg config.Config, flow *auth.Flow, codec session.Codec, predictClient *predict.Client) *Server {
	return &Server{
		auth:    NewAuthHandlers(cfg, flow, codec),
		predict: NewPredictHandlers(predictClient, codec),
	}
}

// Handler returns the routed handler wrapped with recovery and request
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", s.auth.LoginHandler)
	mux.HandleFunc("GET /callback", s.auth.CallbackHandler)
	mux.HandleFunc("GET /logout", s.auth.LogoutHandler)
	mux.HandleFunc("GET /api/session", s.auth.SessionHandler)
	mux.HandleFunc("POST /api/predict", s.predict.PredictHandler)
	mux.HandleFunc("GET /health", healthHandler)

	return ChainMiddleware(mux,
		NewLoggingMiddleware(),
		NewRecoveryMiddleware(),
	)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	_ = jsonwriter.Write(w, map[string]string{"status": "ok"})
}
