// Package di provides dependency injection configuration for the AudioLab server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/config"
	"github.com/audiolabapp/audiolab-server/internal/di/providers"
	"github.com/audiolabapp/audiolab-server/internal/engine"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Engines and business services
	do.Provide(injector, providers.ProvideEngines)
	do.Provide(injector, providers.ProvideAudioService)

	// Workers
	do.Provide(injector, providers.ProvideIngestor)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[engine.Engines](injector)
	_ = do.MustInvoke[*service.AudioService](injector)
	_ = do.MustInvoke[*providers.IngestorHandle](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
