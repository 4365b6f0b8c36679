package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/config"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/service"
	"github.com/audiolabapp/audiolab-server/internal/watcher"
)

// IngestorHandle wraps the inbox watcher with its context for lifecycle
// management. Ingestor is nil when the watcher is disabled.
type IngestorHandle struct {
	Ingestor *watcher.Ingestor
	cancel   context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *IngestorHandle) Shutdown() error {
	if h.Ingestor == nil {
		return nil
	}
	h.cancel()
	return h.Ingestor.Close()
}

// ProvideIngestor provides the filesystem inbox watcher.
func ProvideIngestor(i do.Injector) (*IngestorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	svc := do.MustInvoke[*service.AudioService](i)

	if !cfg.Watcher.Enabled {
		log.Info("Inbox watcher disabled by configuration")
		return &IngestorHandle{}, nil
	}

	if err := os.MkdirAll(cfg.Watcher.InboxPath, 0o750); err != nil {
		return nil, fmt.Errorf("create inbox directory: %w", err)
	}

	ingestor, err := watcher.New(svc, log.Logger, watcher.Options{
		InboxDir:    cfg.Watcher.InboxPath,
		SettleDelay: cfg.Watcher.SettleDelay,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := ingestor.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Inbox watcher stopped", "error", err)
		}
	}()

	log.Info("Inbox watcher started",
		"path", cfg.Watcher.InboxPath,
		"settle_delay", cfg.Watcher.SettleDelay,
	)

	return &IngestorHandle{Ingestor: ingestor, cancel: cancel}, nil
}
