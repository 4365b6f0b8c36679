package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
	"github.com/audiolabapp/audiolab-server/internal/validation"
)

type createRequest struct {
	FilePath string  `json:"file_path" validate:"required"`
	Format   string  `json:"format" validate:"required,audio_format"`
	Language string  `json:"language" validate:"language"`
	Strength float64 `json:"strength" validate:"gte=0,lte=1"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := createRequest{
		FilePath: "/inbox/take1.wav",
		Format:   "wav",
		Language: "english",
		Strength: 0.7,
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       createRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       createRequest{Format: "wav"},
			wantField: "file_path",
		},
		{
			name:      "unsupported format",
			req:       createRequest{FilePath: "/f.mid", Format: "midi"},
			wantField: "format",
		},
		{
			name:      "unknown language",
			req:       createRequest{FilePath: "/f.wav", Format: "wav", Language: "klingon"},
			wantField: "language",
		},
		{
			name:      "strength out of range",
			req:       createRequest{FilePath: "/f.wav", Format: "wav", Strength: 1.5},
			wantField: "strength",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			details, ok := appErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_EmptyOptionalLanguagePasses(t *testing.T) {
	v := validation.New()

	req := createRequest{FilePath: "/f.wav", Format: "wav"}
	assert.NoError(t, v.Validate(req))
}
