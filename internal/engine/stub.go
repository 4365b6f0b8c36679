package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

// NewStubEngines returns a full set of stub collaborators sharing one logger.
func NewStubEngines(logger *slog.Logger) Engines {
	return Engines{
		NoiseReducer:     &StubNoiseReducer{Logger: logger},
		Effects:          &StubEffectProcessor{Logger: logger},
		Synthesizer:      &StubSynthesizer{Logger: logger},
		LanguageDetector: &StubLanguageDetector{Logger: logger},
		Transcriber:      &StubTranscriber{Logger: logger},
		SilenceDetector:  &StubSilenceDetector{Logger: logger},
		VoiceActivity:    &StubVoiceActivityDetector{Logger: logger},
	}
}

// StubNoiseReducer logs the reduction it would perform and leaves the
// metadata untouched.
type StubNoiseReducer struct {
	Logger *slog.Logger
}

var _ NoiseReducer = (*StubNoiseReducer)(nil)

func (s *StubNoiseReducer) ReduceNoise(ctx context.Context, audio *domain.Audio, strength float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info("reducing noise",
		"audio_id", audio.ID,
		"strength", strength)
	return nil
}

// StubEffectProcessor logs the effect it would apply.
type StubEffectProcessor struct {
	Logger *slog.Logger
}

var _ EffectProcessor = (*StubEffectProcessor)(nil)

func (s *StubEffectProcessor) ApplyEffect(ctx context.Context, audio *domain.Audio, effect string, params map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info("applying effect",
		"audio_id", audio.ID,
		"effect", effect,
		"params", params)
	return nil
}

// secondsPerChar drives the stub's speech duration estimate: roughly 14
// characters of text per second of rendered audio.
const secondsPerChar = 0.07

// StubSynthesizer estimates speech duration from text length.
type StubSynthesizer struct {
	Logger *slog.Logger
}

var _ Synthesizer = (*StubSynthesizer)(nil)

func (s *StubSynthesizer) Synthesize(ctx context.Context, text, voice string, language domain.Language) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	duration := secondsPerChar * float64(len(text))
	s.Logger.Info("synthesizing speech",
		"voice", voice,
		"language", language,
		"chars", len(text),
		"duration", duration)
	return duration, nil
}

// StubLanguageDetector picks a language deterministically from the audio ID,
// unless Language is set, in which case it always reports that.
type StubLanguageDetector struct {
	Logger   *slog.Logger
	Language domain.Language
}

var _ LanguageDetector = (*StubLanguageDetector)(nil)

var detectableLanguages = []domain.Language{
	domain.LanguageEnglish,
	domain.LanguageFrench,
	domain.LanguageSpanish,
	domain.LanguageChinese,
	domain.LanguageJapanese,
	domain.LanguageGerman,
}

func (s *StubLanguageDetector) DetectLanguage(ctx context.Context, audio *domain.Audio) (domain.Language, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lang := s.Language
	if lang == "" {
		h := fnv.New32a()
		h.Write([]byte(audio.ID))
		lang = detectableLanguages[int(h.Sum32())%len(detectableLanguages)]
	}
	s.Logger.Info("detected language",
		"audio_id", audio.ID,
		"language", lang)
	return lang, nil
}

// StubTranscriber fabricates a transcript naming the language it heard.
type StubTranscriber struct {
	Logger *slog.Logger
}

var _ Transcriber = (*StubTranscriber)(nil)

func (s *StubTranscriber) Transcribe(ctx context.Context, audio *domain.Audio, language domain.Language) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	transcript := fmt.Sprintf("Transcribed content of %s in %s.", audio.ID, language)
	s.Logger.Info("transcribed audio",
		"audio_id", audio.ID,
		"language", language,
		"chars", len(transcript))
	return transcript, nil
}

// StubSilenceDetector proposes evenly spaced split points, at least
// minSilence apart, strictly inside the asset's duration.
type StubSilenceDetector struct {
	Logger *slog.Logger
}

var _ SilenceDetector = (*StubSilenceDetector)(nil)

func (s *StubSilenceDetector) DetectSplitPoints(ctx context.Context, audio *domain.Audio, minSilence, threshold float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	interval := audio.Duration / 4
	if interval < minSilence {
		interval = minSilence
	}
	var points []float64
	for p := interval; p < audio.Duration; p += interval {
		points = append(points, p)
	}
	s.Logger.Info("detected silence split points",
		"audio_id", audio.ID,
		"min_silence", minSilence,
		"threshold", threshold,
		"points", len(points))
	return points, nil
}

// StubVoiceActivityDetector reports three speech stretches scaled to the
// asset's duration, with silence gaps between them.
type StubVoiceActivityDetector struct {
	Logger *slog.Logger
}

var _ VoiceActivityDetector = (*StubVoiceActivityDetector)(nil)

func (s *StubVoiceActivityDetector) DetectVoiceActivity(ctx context.Context, audio *domain.Audio) ([]Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := audio.Duration
	intervals := []Interval{
		{Start: 0.05 * d, End: 0.30 * d},
		{Start: 0.40 * d, End: 0.70 * d},
		{Start: 0.80 * d, End: 0.95 * d},
	}
	s.Logger.Info("detected voice activity",
		"audio_id", audio.ID,
		"intervals", len(intervals))
	return intervals, nil
}
