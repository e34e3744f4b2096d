package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/auth"
	"github.com/azhaanglitch/smart-accident-detector/internal/config"
	"github.com/azhaanglitch/smart-accident-detector/internal/idp"
	"github.com/azhaanglitch/smart-accident-detector/internal/log"
	"github.com/azhaanglitch/smart-accident-detector/internal/predict"
	"github.com/azhaanglitch/smart-accident-detector/internal/server"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// SkyWatch is the assembled application.
type SkyWatch struct {
	cfg        config.Config
	httpServer *http.Server
}

// New builds the application from configuration: provider, login flow,
// session codec and HTTP surface.
func New(cfg config.Config) (*SkyWatch, error) {
	provider, err := idp.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider: %w", err)
	}

	var codec session.Codec = session.Base64Codec{}
	if cfg.SessionSigningKey != "" {
		codec = session.NewSignedCodec([]byte(cfg.SessionSigningKey))
	}

	flow := auth.NewFlow(cfg, provider)
	srv := server.New(cfg, flow, codec, predict.NewClient(cfg.PredictAPIURL))

	return &SkyWatch{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run starts the HTTP server and blocks until a shutdown signal or a
// server error, then shuts down gracefully.
func (s *SkyWatch) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.LogInfoWithFields("skywatch", "Starting server", map[string]any{
		"addr":     s.cfg.Addr,
		"baseURL":  s.cfg.BaseURL,
		"provider": s.cfg.Provider,
		"signed":   s.cfg.SessionSigningKey != "",
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		log.LogInfoWithFields("skywatch", "Shutting down", map[string]any{
			"timeout": shutdownTimeout.String(),
		})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Logf("Shutdown complete")
	return nil
}
