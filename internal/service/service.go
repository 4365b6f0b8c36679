// Package service provides the business logic layer for the audio metadata
// lifecycle: creating records, deriving new records through processing
// operations, annotating existing records, and segmenting and merging.
//
// Operations fall into two categories. Deriving operations mint a new Audio
// with a fresh ID and never touch the source record. Annotating operations
// (DetectLanguage, Transcribe) update the same record in place; they are the
// only mutations of an existing identity.
package service

import (
	"log/slog"

	"github.com/audiolabapp/audiolab-server/internal/engine"
	"github.com/audiolabapp/audiolab-server/internal/search"
	"github.com/audiolabapp/audiolab-server/internal/store"
)

// AudioService orchestrates audio and segment operations over the store and
// the external processing engines.
type AudioService struct {
	store   store.Store
	engines engine.Engines
	indexer search.TranscriptIndexer
	logger  *slog.Logger
}

// NewAudioService creates a new audio service.
func NewAudioService(store store.Store, engines engine.Engines, indexer search.TranscriptIndexer, logger *slog.Logger) *AudioService {
	if indexer == nil {
		indexer = &search.NoopIndexer{}
	}
	return &AudioService{
		store:   store,
		engines: engines,
		indexer: indexer,
		logger:  logger,
	}
}
