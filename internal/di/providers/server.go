package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/api"
	"github.com/audiolabapp/audiolab-server/internal/config"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/ratelimit"
	"github.com/audiolabapp/audiolab-server/internal/service"
)

// RateLimiterHandle wraps the keyed limiter with shutdown capability.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client request limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Server.RateLimitRPS <= 0 {
		return &RateLimiterHandle{}, nil
	}

	log.Info("Rate limiting enabled",
		"rps", cfg.Server.RateLimitRPS,
		"burst", cfg.Server.RateLimitBurst,
	)

	return &RateLimiterHandle{
		Limiter: ratelimit.New(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	audioService := do.MustInvoke[*service.AudioService](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(audioService, searchHandle.Index, limiterHandle.Limiter, log.Logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
