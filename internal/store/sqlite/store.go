// Package sqlite provides a SQLite-backed implementation of the record store.
// It is interchangeable with the default Badger backend and handy when the
// metadata set should live in a single inspectable file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
	"github.com/audiolabapp/audiolab-server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for audio and segment records.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("record store opened", "backend", "sqlite", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing record store")
	}
	return s.db.Close()
}

// PutAudio persists an audio record under its ID, overwriting any existing entry.
func (s *Store) PutAudio(ctx context.Context, audio *domain.Audio) error {
	return s.put(ctx, audio.ID, store.KindAudio, audio)
}

// GetAudio loads an audio record by ID.
func (s *Store) GetAudio(ctx context.Context, id string) (*domain.Audio, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Kind != store.KindAudio {
		return nil, apperrors.InvalidArgumentf("record %s is a %s, not an audio", id, rec.Kind)
	}
	return rec.Audio, nil
}

// PutSegment persists a segment record under its ID, overwriting any existing entry.
func (s *Store) PutSegment(ctx context.Context, segment *domain.Segment) error {
	return s.put(ctx, segment.ID, store.KindSegment, segment)
}

// GetSegment loads a segment record by ID.
func (s *Store) GetSegment(ctx context.Context, id string) (*domain.Segment, error) {
	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Kind != store.KindSegment {
		return nil, apperrors.InvalidArgumentf("record %s is a %s, not a segment", id, rec.Kind)
	}
	return rec.Segment, nil
}

// GetRecord loads a record of either kind by ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*store.Record, error) {
	var kind string
	var data []byte

	row := s.db.QueryRowContext(ctx, `SELECT kind, data FROM records WHERE id = ?`, id)
	if err := row.Scan(&kind, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("record %s not found", id)
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	rec := &store.Record{Kind: store.Kind(kind)}
	switch rec.Kind {
	case store.KindAudio:
		var audio domain.Audio
		if err := json.Unmarshal(data, &audio); err != nil {
			return nil, apperrors.MalformedRecordf("record %s is not valid JSON", id).WithCause(err)
		}
		rec.Audio = &audio
	case store.KindSegment:
		var segment domain.Segment
		if err := json.Unmarshal(data, &segment); err != nil {
			return nil, apperrors.MalformedRecordf("record %s is not valid JSON", id).WithCause(err)
		}
		rec.Segment = &segment
	default:
		return nil, apperrors.MalformedRecordf("record %s has unknown kind %q", id, kind)
	}

	return rec, nil
}

func (s *Store) put(ctx context.Context, id string, kind store.Kind, payload any) error {
	if id == "" {
		return apperrors.InvalidArgument("record ID must not be empty")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, data, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (id) DO UPDATE SET
			kind = excluded.kind,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		id, string(kind), data)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}
