package service

import (
	"context"
	"fmt"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
	"github.com/audiolabapp/audiolab-server/internal/id"
)

// Synthesize renders speech from text via the synthesis engine and
// persists the result as a new Audio record. The engine reports the
// rendered duration; the stub estimates it from text length.
func (s *AudioService) Synthesize(ctx context.Context, text, voice string, language domain.Language) (*domain.Audio, error) {
	if text == "" {
		return nil, apperrors.InvalidArgument("synthesis text is required")
	}
	if language == "" {
		language = domain.LanguageEnglish
	}
	if !language.Valid() {
		return nil, apperrors.Validationf("unrecognized language: %q", language)
	}

	duration, err := s.engines.Synthesizer.Synthesize(ctx, text, voice, language)
	if err != nil {
		return nil, fmt.Errorf("synthesis engine: %w", err)
	}

	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	audio := domain.NewAudio(newID, domain.DerivedFilePath("tts", newID, domain.FormatWAV), domain.FormatWAV)
	audio.Duration = duration
	audio.DetectedLanguage = language

	if err := s.store.PutAudio(ctx, audio); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	s.logger.Info("speech synthesized",
		"audio_id", audio.ID,
		"voice", voice,
		"language", language,
		"duration", audio.Duration,
	)

	return audio, nil
}

// Fixed parameter sets for the enhancement chain.
var (
	enhanceEQParams = map[string]float64{
		"low":  1.2,
		"mid":  1.0,
		"high": 1.1,
	}
	enhanceCompressionParams = map[string]float64{
		"threshold": -20,
		"ratio":     4,
	}
	audiobookReverbParams = map[string]float64{
		"room_size": 0.3,
		"wet":       0.2,
	}
)

// Enhance runs the standard cleanup chain: noise reduction at 0.7, then
// EQ, then compression. Pure sequencing of deriving operations; each step
// mints its own record and the final one is returned.
func (s *AudioService) Enhance(ctx context.Context, audioID string) (*domain.Audio, error) {
	denoised, err := s.ReduceNoise(ctx, audioID, 0.7)
	if err != nil {
		return nil, err
	}

	equalized, err := s.ApplyEffect(ctx, denoised.ID, "eq", enhanceEQParams)
	if err != nil {
		return nil, err
	}

	compressed, err := s.ApplyEffect(ctx, equalized.ID, "compression", enhanceCompressionParams)
	if err != nil {
		return nil, err
	}

	s.logger.Info("audio enhanced",
		"source_id", audioID,
		"audio_id", compressed.ID,
	)

	return compressed, nil
}

// CreateAudiobook synthesizes the text, colors it with a light reverb,
// and runs the result through the enhancement chain.
func (s *AudioService) CreateAudiobook(ctx context.Context, text, voice string) (*domain.Audio, error) {
	synthesized, err := s.Synthesize(ctx, text, voice, domain.LanguageEnglish)
	if err != nil {
		return nil, err
	}

	withReverb, err := s.ApplyEffect(ctx, synthesized.ID, "reverb", audiobookReverbParams)
	if err != nil {
		return nil, err
	}

	final, err := s.Enhance(ctx, withReverb.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("audiobook created",
		"audio_id", final.ID,
		"chars", len(text),
		"voice", voice,
	)

	return final, nil
}
