package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/config"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/search"
)

// SearchIndexHandle wraps the transcript index with shutdown capability.
// Index is nil when search is disabled by configuration.
type SearchIndexHandle struct {
	Index *search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex provides the transcript full-text index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Transcript search disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	searchPath := cfg.SearchPath()
	if err := os.MkdirAll(searchPath, 0o750); err != nil {
		return nil, fmt.Errorf("create search directory: %w", err)
	}

	idx, err := search.NewIndex(search.Options{
		DataPath: searchPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	count, err := idx.DocumentCount()
	if err == nil {
		log.Info("Transcript index ready", "path", searchPath, "documents", count)
	}

	return &SearchIndexHandle{Index: idx}, nil
}
