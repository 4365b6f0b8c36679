package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/http/response"
)

// CreateAudioRequest is the request body for creating an audio record.
type CreateAudioRequest struct {
	FilePath string `json:"file_path" validate:"required"`
	Format   string `json:"format" validate:"required,audio_format"`
	propertyOverridesRequest
}

// ReduceNoiseRequest is the request body for the noise reduction operation.
type ReduceNoiseRequest struct {
	Strength float64 `json:"strength" validate:"gte=0,lte=1"`
}

// ApplyEffectRequest is the request body for applying a named effect.
type ApplyEffectRequest struct {
	Effect string             `json:"effect" validate:"required"`
	Params map[string]float64 `json:"params"`
}

// ConvertFormatRequest is the request body for format conversion.
type ConvertFormatRequest struct {
	Format string `json:"format" validate:"required,audio_format"`
}

// AdjustPropertiesRequest is the request body for property adjustment.
type AdjustPropertiesRequest struct {
	propertyOverridesRequest
}

// handleCreateAudio creates a new audio record.
func (s *Server) handleCreateAudio(w http.ResponseWriter, r *http.Request) {
	var req CreateAudioRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.CreateAudio(r.Context(), req.FilePath, domain.Format(req.Format), req.overrides())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}

// handleGetAudio returns one audio record.
func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := s.audioService.GetAudio(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, audio, s.logger)
}

// handleGetRecord returns a record of either kind.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.audioService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handleReduceNoise derives a noise-reduced record from the source.
func (s *Server) handleReduceNoise(w http.ResponseWriter, r *http.Request) {
	var req ReduceNoiseRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.ReduceNoise(r.Context(), chi.URLParam(r, "id"), req.Strength)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}

// handleApplyEffect derives a new record with the named effect applied.
func (s *Server) handleApplyEffect(w http.ResponseWriter, r *http.Request) {
	var req ApplyEffectRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.ApplyEffect(r.Context(), chi.URLParam(r, "id"), req.Effect, req.Params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}

// handleConvertFormat derives a record in the target format. Converting
// to the current format returns the source record with 200 instead of 201.
func (s *Server) handleConvertFormat(w http.ResponseWriter, r *http.Request) {
	var req ConvertFormatRequest
	if !s.decode(w, r, &req) {
		return
	}

	sourceID := chi.URLParam(r, "id")
	audio, err := s.audioService.ConvertFormat(r.Context(), sourceID, domain.Format(req.Format))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if audio.ID == sourceID {
		response.Success(w, audio, s.logger)
		return
	}
	response.Created(w, audio, s.logger)
}

// handleAdjustProperties derives a record with the supplied properties.
func (s *Server) handleAdjustProperties(w http.ResponseWriter, r *http.Request) {
	var req AdjustPropertiesRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.AdjustProperties(r.Context(), chi.URLParam(r, "id"), req.overrides())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}

// handleEnhance runs the noise reduction, EQ, and compression chain.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	audio, err := s.audioService.Enhance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}
