// Package search provides full-text search over audio transcripts,
// backed by a Bleve index.
package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

// TranscriptIndexer receives transcript updates from the service layer.
// The service calls IndexTranscript whenever a transcript is attached to
// an audio record. NoopIndexer satisfies this for deployments that run
// without search.
type TranscriptIndexer interface {
	IndexTranscript(audio *domain.Audio) error
	DeleteTranscript(id string) error
}

// Index wraps a Bleve index with transcript-specific operations.
//
// Thread safety: all public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

var _ TranscriptIndexer = (*Index)(nil)

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on startup triggers an automatic rebuild.
const mappingVersion = "1"

// NewIndex creates or opens a transcript search index under
// opts.DataPath. A corrupted or version-mismatched index is removed and
// recreated; transcripts are re-indexed lazily as records are transcribed.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "transcripts.bleve")
	versionPath := filepath.Join(opts.DataPath, "transcripts.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("transcript index has no version file, will rebuild",
				"new_version", mappingVersion)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("transcript index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing transcript index, will recreate",
				"path", indexPath,
				"error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write transcript index version file", "error", writeErr)
		}
		logger.Info("created new transcript index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing transcript index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexTranscript indexes one audio record's transcript.
// Records without a transcript are removed from the index instead,
// so re-indexing after a record change never leaves stale text behind.
func (s *Index) IndexTranscript(audio *domain.Audio) error {
	if audio.Transcript == "" {
		return s.DeleteTranscript(audio.ID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := map[string]any{
		"id":         audio.ID,
		"transcript": audio.Transcript,
		"language":   string(audio.DetectedLanguage),
		"format":     string(audio.Format),
		"duration":   audio.Duration,
		"updated_at": float64(audio.UpdatedAt.Unix()),
	}
	return s.index.Index(audio.ID, doc)
}

// DeleteTranscript removes a record's transcript from the index.
func (s *Index) DeleteTranscript(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed transcripts.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// NoopIndexer discards every indexing call. Used when search is disabled
// and in service tests that do not exercise search.
type NoopIndexer struct{}

var _ TranscriptIndexer = (*NoopIndexer)(nil)

func (NoopIndexer) IndexTranscript(*domain.Audio) error { return nil }
func (NoopIndexer) DeleteTranscript(string) error       { return nil }
