// Package watcher ingests audio files dropped into an inbox directory.
// New files become Audio records via the service layer, with properties
// probed from the file where possible.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/service"
)

// Options configures the ingest watcher.
type Options struct {
	InboxDir    string
	SettleDelay time.Duration // Wait after the last write before ingesting

	// OnIngest, when set, is called after each successful ingest.
	// Used by tests and by callers that chain processing onto new files.
	OnIngest func(audio *domain.Audio)
}

func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 2 * time.Second
	}
}

// Ingestor watches the inbox directory and creates an Audio record for
// every audio file that appears. Files still being written are held back
// until their size and mtime stop changing.
type Ingestor struct {
	svc    *service.AudioService
	opts   Options
	logger *slog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	seen    map[string]bool
}

// New creates an ingest watcher over opts.InboxDir.
func New(svc *service.AudioService, logger *slog.Logger, opts Options) (*Ingestor, error) {
	opts.setDefaults()

	if opts.InboxDir == "" {
		return nil, fmt.Errorf("inbox directory is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Ingestor{
		svc:     svc,
		opts:    opts,
		logger:  logger,
		watcher: fsw,
		pending: make(map[string]*time.Timer),
		seen:    make(map[string]bool),
	}, nil
}

// Run scans the inbox for files that arrived while the watcher was down,
// then blocks processing filesystem events until the context is canceled.
func (i *Ingestor) Run(ctx context.Context) error {
	if err := i.watcher.Add(i.opts.InboxDir); err != nil {
		return fmt.Errorf("watch inbox %s: %w", i.opts.InboxDir, err)
	}

	if err := i.ScanExisting(ctx); err != nil {
		return err
	}

	i.logger.Info("watching inbox", "dir", i.opts.InboxDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-i.watcher.Events:
			if !ok {
				return nil
			}
			i.handleEvent(ctx, event)
		case err, ok := <-i.watcher.Errors:
			if !ok {
				return nil
			}
			i.logger.Error("inbox watch error", "error", err)
		}
	}
}

// Close stops the underlying filesystem watcher and cancels pending
// settle timers.
func (i *Ingestor) Close() error {
	i.mu.Lock()
	for _, timer := range i.pending {
		timer.Stop()
	}
	clear(i.pending)
	i.mu.Unlock()

	return i.watcher.Close()
}

// ScanExisting ingests audio files already present in the inbox. Each
// scan gets its own id for log correlation.
func (i *Ingestor) ScanExisting(ctx context.Context) error {
	scanID := uuid.NewString()

	entries, err := os.ReadDir(i.opts.InboxDir)
	if err != nil {
		return fmt.Errorf("read inbox %s: %w", i.opts.InboxDir, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(i.opts.InboxDir, entry.Name())
		if !isAudioFile(path) {
			continue
		}
		if err := i.ingest(ctx, scanID, path); err != nil {
			i.logger.Error("failed to ingest file",
				"scan_id", scanID,
				"path", path,
				"error", err)
			continue
		}
		ingested++
	}

	i.logger.Info("inbox scan complete",
		"scan_id", scanID,
		"ingested", ingested)

	return nil
}

func (i *Ingestor) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !isAudioFile(event.Name) {
		return
	}

	// Debounce: restart the settle timer on every write so a file that
	// is still being copied in is not ingested half-transferred.
	i.mu.Lock()
	defer i.mu.Unlock()

	if timer, exists := i.pending[event.Name]; exists {
		timer.Stop()
	}
	path := event.Name
	i.pending[path] = time.AfterFunc(i.opts.SettleDelay, func() {
		i.mu.Lock()
		delete(i.pending, path)
		i.mu.Unlock()

		scanID := uuid.NewString()
		if err := i.ingest(ctx, scanID, path); err != nil {
			i.logger.Error("failed to ingest file",
				"scan_id", scanID,
				"path", path,
				"error", err)
		}
	})
}

// ingest creates an Audio record for one file. Probing failures are not
// fatal: the record falls back to default properties.
func (i *Ingestor) ingest(ctx context.Context, scanID, path string) error {
	i.mu.Lock()
	if i.seen[path] {
		i.mu.Unlock()
		return nil
	}
	i.seen[path] = true
	i.mu.Unlock()

	format, err := formatFromPath(path)
	if err != nil {
		return err
	}

	overrides := i.probe(ctx, scanID, path)

	audio, err := i.svc.CreateAudio(ctx, path, format, overrides)
	if err != nil {
		return err
	}

	i.logger.Info("file ingested",
		"scan_id", scanID,
		"audio_id", audio.ID,
		"path", path,
		"format", audio.Format,
		"duration", audio.Duration)

	if i.opts.OnIngest != nil {
		i.opts.OnIngest(audio)
	}

	return nil
}

// isAudioFile reports whether the path has a supported audio extension.
func isAudioFile(path string) bool {
	_, err := formatFromPath(path)
	return err == nil
}

// formatFromPath maps a file extension to an audio format.
func formatFromPath(path string) (domain.Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return domain.ParseFormat(ext)
}
