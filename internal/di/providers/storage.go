package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/config"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/store"
	"github.com/audiolabapp/audiolab-server/internal/store/sqlite"
)

// StoreHandle wraps the record store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the record store, backed by badger or sqlite
// depending on configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storePath := cfg.StorePath()
	if err := os.MkdirAll(storePath, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Storage.Backend {
	case "sqlite":
		st, err = sqlite.Open(filepath.Join(storePath, "records.db"), log.Logger)
	default:
		st, err = store.Open(storePath, log.Logger)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Record store initialized",
		"backend", cfg.Storage.Backend,
		"path", storePath,
	)

	return &StoreHandle{Store: st}, nil
}
