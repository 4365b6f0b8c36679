package service

import (
	"context"
	"fmt"

	"github.com/audiolabapp/audiolab-server/internal/domain"
)

// DetectLanguage is an annotating operation: it asks the language
// detection engine for a verdict and writes it onto the existing record,
// same ID, persisted in place. One of the two operations allowed to
// mutate an existing identity.
func (s *AudioService) DetectLanguage(ctx context.Context, audioID string) (domain.Language, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return "", err
	}

	lang, err := s.engines.LanguageDetector.DetectLanguage(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("language detection engine: %w", err)
	}

	audio.DetectedLanguage = lang
	audio.Touch()

	if err := s.store.PutAudio(ctx, audio); err != nil {
		return "", fmt.Errorf("persist audio: %w", err)
	}

	// The transcript index stores the language alongside the text, so an
	// already-transcribed record needs re-indexing.
	if audio.Transcript != "" {
		if err := s.indexer.IndexTranscript(audio); err != nil {
			s.logger.Warn("failed to update transcript index",
				"audio_id", audio.ID,
				"error", err,
			)
		}
	}

	s.logger.Info("language detected",
		"audio_id", audio.ID,
		"language", lang,
	)

	return lang, nil
}

// Transcribe is an annotating operation: it obtains text from the
// transcription engine and writes it onto the existing record in place.
// The effective language is the caller's hint if given, else the record's
// previously detected language, else English.
func (s *AudioService) Transcribe(ctx context.Context, audioID string, hint domain.Language) (string, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return "", err
	}

	lang := hint
	if lang == "" {
		lang = audio.DetectedLanguage
	}
	if lang == "" {
		lang = domain.LanguageEnglish
	}

	text, err := s.engines.Transcriber.Transcribe(ctx, audio, lang)
	if err != nil {
		return "", fmt.Errorf("transcription engine: %w", err)
	}

	audio.Transcript = text
	audio.Touch()

	if err := s.store.PutAudio(ctx, audio); err != nil {
		return "", fmt.Errorf("persist audio: %w", err)
	}

	// Index failures are logged, not fatal: the transcript is already
	// durable on the record and the index can be rebuilt.
	if err := s.indexer.IndexTranscript(audio); err != nil {
		s.logger.Warn("failed to index transcript",
			"audio_id", audio.ID,
			"error", err,
		)
	}

	s.logger.Info("audio transcribed",
		"audio_id", audio.ID,
		"language", lang,
		"chars", len(text),
	)

	return text, nil
}
