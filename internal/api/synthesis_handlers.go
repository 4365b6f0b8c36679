package api

import (
	"net/http"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/http/response"
)

// SynthesizeRequest is the request body for text-to-speech.
type SynthesizeRequest struct {
	Text     string `json:"text" validate:"required"`
	Voice    string `json:"voice"`
	Language string `json:"language" validate:"language"`
}

// CreateAudiobookRequest is the request body for the audiobook workflow.
type CreateAudiobookRequest struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice"`
}

// handleSynthesize renders speech from text into a new audio record.
func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.Synthesize(r.Context(), req.Text, req.Voice, domain.Language(req.Language))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}

// handleCreateAudiobook runs synthesis, reverb, and enhancement.
func (s *Server) handleCreateAudiobook(w http.ResponseWriter, r *http.Request) {
	var req CreateAudiobookRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.CreateAudiobook(r.Context(), req.Text, req.Voice)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}
