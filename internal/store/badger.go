package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
)

// recordPrefix namespaces record keys inside the Badger keyspace.
const recordPrefix = "rec:"

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

// Badger is the default Store implementation, backed by a Badger database
// with JSON-serialized record envelopes.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// compile-time interface check
var _ Store = (*Badger)(nil)

// Open opens (or creates) a Badger store at the given path.
func Open(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("record store opened", "backend", "badger", "path", path)
	}

	return &Badger{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Badger) Close() error {
	if s.logger != nil {
		s.logger.Info("closing record store")
	}
	return s.db.Close()
}

// PutAudio persists an audio record under its ID, overwriting any existing entry.
func (s *Badger) PutAudio(ctx context.Context, audio *domain.Audio) error {
	return s.put(ctx, audio.ID, &Record{Kind: KindAudio, Audio: audio})
}

// GetAudio loads an audio record by ID.
func (s *Badger) GetAudio(ctx context.Context, id string) (*domain.Audio, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.asAudio(id)
}

// PutSegment persists a segment record under its ID, overwriting any existing entry.
func (s *Badger) PutSegment(ctx context.Context, segment *domain.Segment) error {
	return s.put(ctx, segment.ID, &Record{Kind: KindSegment, Segment: segment})
}

// GetSegment loads a segment record by ID.
func (s *Badger) GetSegment(ctx context.Context, id string) (*domain.Segment, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.asSegment(id)
}

// GetRecord loads a record of either kind by ID.
func (s *Badger) GetRecord(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NotFoundf("record %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &rec); err != nil {
				return apperrors.MalformedRecordf("record %s is not valid JSON", id).WithCause(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if err := rec.validate(id); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Badger) put(ctx context.Context, id string, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidArgument("record ID must not be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(id), data)
	})
}
