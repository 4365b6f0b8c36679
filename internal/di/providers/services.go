package providers

import (
	"github.com/samber/do/v2"

	"github.com/audiolabapp/audiolab-server/internal/engine"
	"github.com/audiolabapp/audiolab-server/internal/logger"
	"github.com/audiolabapp/audiolab-server/internal/search"
	"github.com/audiolabapp/audiolab-server/internal/service"
)

// ProvideEngines provides the signal processing engine bundle. The stub
// engines record intent and produce deterministic results; real engines
// slot in behind the same interfaces.
func ProvideEngines(i do.Injector) (engine.Engines, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return engine.NewStubEngines(log.Logger), nil
}

// ProvideAudioService provides the core audio service.
func ProvideAudioService(i do.Injector) (*service.AudioService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engines := do.MustInvoke[engine.Engines](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	var indexer search.TranscriptIndexer
	if searchHandle.Index != nil {
		indexer = searchHandle.Index
	}

	return service.NewAudioService(storeHandle.Store, engines, indexer, log.Logger), nil
}
