// Package domain contains the core entities and domain logic for the AudioLab metadata service.
package domain

import (
	"time"

	"github.com/audiolabapp/audiolab-server/internal/errors"
)

// Format identifies the container format of an audio asset.
type Format string

// Supported audio formats.
const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
	FormatAAC  Format = "aac"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatFLAC, FormatOGG, FormatAAC}
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatWAV, FormatMP3, FormatFLAC, FormatOGG, FormatAAC:
		return true
	}
	return false
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat converts a string into a Format.
// Returns a validation error for unknown formats.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", errors.Validationf("unsupported audio format: %q", s)
	}
	return f, nil
}

// Language is a detected or hinted spoken language.
type Language string

// Recognized languages. LanguageUnknown is a valid detection outcome,
// not an error.
const (
	LanguageEnglish  Language = "english"
	LanguageFrench   Language = "french"
	LanguageSpanish  Language = "spanish"
	LanguageChinese  Language = "chinese"
	LanguageJapanese Language = "japanese"
	LanguageGerman   Language = "german"
	LanguageUnknown  Language = "unknown"
)

// Valid reports whether l is a recognized language token.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageFrench, LanguageSpanish,
		LanguageChinese, LanguageJapanese, LanguageGerman, LanguageUnknown:
		return true
	}
	return false
}

// ParseLanguage converts a string into a Language.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", errors.Validationf("unrecognized language: %q", s)
	}
	return l, nil
}

// Default property values for newly created audio records.
const (
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	DefaultChannels   = 2
	DefaultDuration   = 60.0
)

// Audio represents one audio asset's metadata.
//
// The ID is assigned at creation and never changes. Any operation that
// alters audio content mints a new Audio with a fresh ID; the only
// in-place updates permitted are attaching DetectedLanguage and
// Transcript (the annotating operations).
type Audio struct {
	ID               string    `json:"id"`
	FilePath         string    `json:"file_path"`
	Format           Format    `json:"format"`
	SampleRate       int       `json:"sample_rate"`
	BitDepth         int       `json:"bit_depth"`
	Channels         int       `json:"channels"`
	Duration         float64   `json:"duration"`
	DetectedLanguage Language  `json:"detected_language,omitempty"`
	Transcript       string    `json:"transcript,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewAudio builds an Audio with default properties for the given path and format.
// The caller supplies the ID so record creation and ID generation stay separate.
func NewAudio(id, filePath string, format Format) *Audio {
	now := time.Now()
	return &Audio{
		ID:         id,
		FilePath:   filePath,
		Format:     format,
		SampleRate: DefaultSampleRate,
		BitDepth:   DefaultBitDepth,
		Channels:   DefaultChannels,
		Duration:   DefaultDuration,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the record changes.
func (a *Audio) Touch() {
	a.UpdatedAt = time.Now()
}

// Derive copies the audio into a new record under a fresh ID, with a
// file path following the {prefix}_{newID}.{ext} convention. Language
// and transcript annotations carry over; the caller overrides whatever
// fields its operation is defined to change.
func (a *Audio) Derive(newID, pathPrefix string) *Audio {
	now := time.Now()
	derived := *a
	derived.ID = newID
	derived.FilePath = DerivedFilePath(pathPrefix, newID, a.Format)
	derived.CreatedAt = now
	derived.UpdatedAt = now
	return &derived
}

// DerivedFilePath builds the conventional file path for a derived record.
func DerivedFilePath(prefix, id string, format Format) string {
	return prefix + "_" + id + "." + format.Ext()
}
