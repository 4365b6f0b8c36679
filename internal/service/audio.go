package service

import (
	"context"
	"fmt"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
	"github.com/audiolabapp/audiolab-server/internal/id"
	"github.com/audiolabapp/audiolab-server/internal/store"
)

// PropertyOverrides carries optional audio property values. Nil fields
// keep their current (or default) values.
type PropertyOverrides struct {
	SampleRate *int
	BitDepth   *int
	Channels   *int
	Duration   *float64
}

// validate rejects non-positive properties before they reach a record.
func (o PropertyOverrides) validate() error {
	if o.SampleRate != nil && *o.SampleRate <= 0 {
		return apperrors.Validationf("sample_rate must be positive, got %d", *o.SampleRate)
	}
	if o.BitDepth != nil && *o.BitDepth <= 0 {
		return apperrors.Validationf("bit_depth must be positive, got %d", *o.BitDepth)
	}
	if o.Channels != nil && *o.Channels <= 0 {
		return apperrors.Validationf("channels must be positive, got %d", *o.Channels)
	}
	if o.Duration != nil && *o.Duration < 0 {
		return apperrors.Validationf("duration must be non-negative, got %.3f", *o.Duration)
	}
	return nil
}

// apply copies the supplied fields onto the record.
func (o PropertyOverrides) apply(a *domain.Audio) {
	if o.SampleRate != nil {
		a.SampleRate = *o.SampleRate
	}
	if o.BitDepth != nil {
		a.BitDepth = *o.BitDepth
	}
	if o.Channels != nil {
		a.Channels = *o.Channels
	}
	if o.Duration != nil {
		a.Duration = *o.Duration
	}
}

// CreateAudio builds a new Audio record with default properties, applies
// any overrides, and persists it. No file content is read or checked;
// the record describes the asset, it does not manage the bytes.
func (s *AudioService) CreateAudio(ctx context.Context, filePath string, format domain.Format, overrides PropertyOverrides) (*domain.Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !format.Valid() {
		return nil, apperrors.Validationf("unsupported audio format: %q", format)
	}
	if err := overrides.validate(); err != nil {
		return nil, err
	}

	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	audio := domain.NewAudio(newID, filePath, format)
	overrides.apply(audio)

	if err := s.store.PutAudio(ctx, audio); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	s.logger.Info("audio created",
		"audio_id", audio.ID,
		"file_path", audio.FilePath,
		"format", audio.Format,
		"duration", audio.Duration,
	)

	return audio, nil
}

// GetAudio loads one audio record by ID.
func (s *AudioService) GetAudio(ctx context.Context, audioID string) (*domain.Audio, error) {
	return s.store.GetAudio(ctx, audioID)
}

// GetSegment loads one segment record by ID.
func (s *AudioService) GetSegment(ctx context.Context, segmentID string) (*domain.Segment, error) {
	return s.store.GetSegment(ctx, segmentID)
}

// GetRecord loads a record of either kind by ID.
func (s *AudioService) GetRecord(ctx context.Context, recordID string) (*store.Record, error) {
	return s.store.GetRecord(ctx, recordID)
}

// ReduceNoise is a deriving operation: it runs the noise reduction engine
// against the source and persists the result as a new record with a fresh
// ID. The source record is untouched.
//
// Strength is nominally in [0, 1] but the core does not clamp or reject
// out-of-range values; the HTTP layer validates before calling.
func (s *AudioService) ReduceNoise(ctx context.Context, audioID string, strength float64) (*domain.Audio, error) {
	src, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	if err := s.engines.NoiseReducer.ReduceNoise(ctx, src, strength); err != nil {
		return nil, fmt.Errorf("noise reduction engine: %w", err)
	}

	derived, err := s.deriveAndPersist(ctx, src, "denoised")
	if err != nil {
		return nil, err
	}

	s.logger.Info("noise reduced",
		"source_id", src.ID,
		"audio_id", derived.ID,
		"strength", strength,
	)

	return derived, nil
}

// ApplyEffect is a deriving operation: the named effect runs against the
// source and the result becomes a new record. The effect name doubles as
// the derived file path prefix.
func (s *AudioService) ApplyEffect(ctx context.Context, audioID, effect string, params map[string]float64) (*domain.Audio, error) {
	if effect == "" {
		return nil, apperrors.InvalidArgument("effect name is required")
	}

	src, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	if err := s.engines.Effects.ApplyEffect(ctx, src, effect, params); err != nil {
		return nil, fmt.Errorf("effect engine: %w", err)
	}

	derived, err := s.deriveAndPersist(ctx, src, effect)
	if err != nil {
		return nil, err
	}

	s.logger.Info("effect applied",
		"source_id", src.ID,
		"audio_id", derived.ID,
		"effect", effect,
	)

	return derived, nil
}

// ConvertFormat is a deriving operation, with one short-circuit: when the
// target equals the source's current format the source record itself is
// returned and nothing new is minted. That is a deliberate no-op, not an
// error.
func (s *AudioService) ConvertFormat(ctx context.Context, audioID string, target domain.Format) (*domain.Audio, error) {
	if !target.Valid() {
		return nil, apperrors.Validationf("unsupported audio format: %q", target)
	}

	src, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	if src.Format == target {
		s.logger.Info("format conversion skipped, already in target format",
			"audio_id", src.ID,
			"format", target,
		)
		return src, nil
	}

	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	derived := src.Derive(newID, "converted")
	derived.Format = target
	derived.FilePath = domain.DerivedFilePath("converted", newID, target)

	if err := s.store.PutAudio(ctx, derived); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	s.logger.Info("format converted",
		"source_id", src.ID,
		"audio_id", derived.ID,
		"from", src.Format,
		"to", target,
	)

	return derived, nil
}

// AdjustProperties is a deriving operation: only the supplied fields
// change, everything else carries over from the source.
func (s *AudioService) AdjustProperties(ctx context.Context, audioID string, overrides PropertyOverrides) (*domain.Audio, error) {
	if err := overrides.validate(); err != nil {
		return nil, err
	}

	src, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	derived := src.Derive(newID, "adjusted")
	overrides.apply(derived)

	if err := s.store.PutAudio(ctx, derived); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	s.logger.Info("properties adjusted",
		"source_id", src.ID,
		"audio_id", derived.ID,
		"sample_rate", derived.SampleRate,
		"bit_depth", derived.BitDepth,
		"channels", derived.Channels,
		"duration", derived.Duration,
	)

	return derived, nil
}

// deriveAndPersist mints a fresh ID, copies the source under the new
// identity with the operation's path prefix, and persists the result.
func (s *AudioService) deriveAndPersist(ctx context.Context, src *domain.Audio, prefix string) (*domain.Audio, error) {
	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	derived := src.Derive(newID, prefix)
	if err := s.store.PutAudio(ctx, derived); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	return derived, nil
}
