package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/http/response"
)

// TranscribeRequest is the request body for transcription.
// The body is optional; an absent or empty hint falls back to the
// record's detected language, then English.
type TranscribeRequest struct {
	LanguageHint string `json:"language_hint" validate:"language"`
}

// DetectLanguageResponse carries the detection verdict.
type DetectLanguageResponse struct {
	AudioID  string          `json:"audio_id"`
	Language domain.Language `json:"language"`
}

// TranscribeResponse carries the transcription result.
type TranscribeResponse struct {
	AudioID    string `json:"audio_id"`
	Transcript string `json:"transcript"`
}

// handleDetectLanguage attaches a detected language to the record in place.
func (s *Server) handleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	audioID := chi.URLParam(r, "id")

	lang, err := s.audioService.DetectLanguage(r.Context(), audioID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, DetectLanguageResponse{AudioID: audioID, Language: lang}, s.logger)
}

// handleTranscribe attaches a transcript to the record in place.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	audioID := chi.URLParam(r, "id")

	var req TranscribeRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			response.BadRequest(w, "Invalid request body", s.logger)
			return
		}
		if err := s.validator.Validate(req); err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}

	transcript, err := s.audioService.Transcribe(r.Context(), audioID, domain.Language(req.LanguageHint))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, TranscribeResponse{AudioID: audioID, Transcript: transcript}, s.logger)
}
