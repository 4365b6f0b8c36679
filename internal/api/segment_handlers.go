package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/audiolabapp/audiolab-server/internal/http/response"
)

// SplitByTimeRequest is the request body for a timestamp split.
type SplitByTimeRequest struct {
	Timestamps []float64 `json:"timestamps"`
}

// SplitBySilenceRequest is the request body for a silence split.
type SplitBySilenceRequest struct {
	MinSilenceDuration float64 `json:"min_silence_duration" validate:"gte=0"`
	Threshold          float64 `json:"threshold"`
}

// MergeSegmentsRequest is the request body for merging segments.
type MergeSegmentsRequest struct {
	SegmentIDs []string `json:"segment_ids" validate:"required,min=1"`
	Crossfade  float64  `json:"crossfade" validate:"gte=0"`
}

// handleGetSegment returns one segment record.
func (s *Server) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	segment, err := s.audioService.GetSegment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, segment, s.logger)
}

// handleDetectVoiceActivity returns speech intervals without persisting
// anything.
func (s *Server) handleDetectVoiceActivity(w http.ResponseWriter, r *http.Request) {
	intervals, err := s.audioService.DetectVoiceActivity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, intervals, s.logger)
}

// handleSplitByTime creates segments at the given timestamps.
func (s *Server) handleSplitByTime(w http.ResponseWriter, r *http.Request) {
	var req SplitByTimeRequest
	if !s.decode(w, r, &req) {
		return
	}

	segments, err := s.audioService.SplitByTime(r.Context(), chi.URLParam(r, "id"), req.Timestamps)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, segments, s.logger)
}

// handleSplitBySilence creates segments at detected silence points.
func (s *Server) handleSplitBySilence(w http.ResponseWriter, r *http.Request) {
	var req SplitBySilenceRequest
	if !s.decode(w, r, &req) {
		return
	}

	segments, err := s.audioService.SplitBySilence(r.Context(), chi.URLParam(r, "id"), req.MinSilenceDuration, req.Threshold)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, segments, s.logger)
}

// handleAutoGenerateSegments creates segments from voice activity.
func (s *Server) handleAutoGenerateSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := s.audioService.AutoGenerateSegments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, segments, s.logger)
}

// handleMergeSegments merges segments into one new audio record.
func (s *Server) handleMergeSegments(w http.ResponseWriter, r *http.Request) {
	var req MergeSegmentsRequest
	if !s.decode(w, r, &req) {
		return
	}

	audio, err := s.audioService.MergeSegments(r.Context(), req.SegmentIDs, req.Crossfade)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, audio, s.logger)
}
