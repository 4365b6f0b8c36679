// Package engine defines the external processing collaborators the metadata
// service delegates to: noise reduction, effects, speech synthesis, language
// detection, transcription, and silence/voice analysis.
//
// The core operations only depend on these interfaces. The bundled stub
// implementations log what a real engine would do and fabricate plausible
// results; swapping in a real DSP or speech backend is a matter of providing
// another implementation.
package engine

import (
	"context"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

// Interval is a time range in seconds, used for voice activity results.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NoiseReducer removes noise from audio content.
// Strength is nominally in [0, 1]; values outside that range are passed
// through unclamped.
type NoiseReducer interface {
	ReduceNoise(ctx context.Context, audio *domain.Audio, strength float64) error
}

// EffectProcessor applies a named effect with numeric parameters.
type EffectProcessor interface {
	ApplyEffect(ctx context.Context, audio *domain.Audio, effect string, params map[string]float64) error
}

// Synthesizer renders speech from text.
type Synthesizer interface {
	// Synthesize returns the estimated duration in seconds of the rendered speech.
	Synthesize(ctx context.Context, text, voice string, language domain.Language) (float64, error)
}

// LanguageDetector identifies the spoken language of an audio asset.
type LanguageDetector interface {
	DetectLanguage(ctx context.Context, audio *domain.Audio) (domain.Language, error)
}

// Transcriber converts speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio *domain.Audio, language domain.Language) (string, error)
}

// SilenceDetector finds split points at silent stretches.
// Returned points are sorted and lie strictly inside (0, duration).
type SilenceDetector interface {
	DetectSplitPoints(ctx context.Context, audio *domain.Audio, minSilence, threshold float64) ([]float64, error)
}

// VoiceActivityDetector finds stretches containing speech.
// Returned intervals are ordered, non-overlapping, and lie within [0, duration].
type VoiceActivityDetector interface {
	DetectVoiceActivity(ctx context.Context, audio *domain.Audio) ([]Interval, error)
}

// Engines bundles every collaborator for injection into the service layer.
type Engines struct {
	NoiseReducer     NoiseReducer
	Effects          EffectProcessor
	Synthesizer      Synthesizer
	LanguageDetector LanguageDetector
	Transcriber      Transcriber
	SilenceDetector  SilenceDetector
	VoiceActivity    VoiceActivityDetector
}
