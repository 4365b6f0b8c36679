package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/audiolabapp/audiolab-server/internal/http/response"
	"github.com/audiolabapp/audiolab-server/internal/service"
)

// decode unmarshals and validates a JSON request body. On failure it
// writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return false
	}
	if err := s.validator.Validate(dst); err != nil {
		response.HandleError(w, err, s.logger)
		return false
	}
	return true
}

// propertyOverridesRequest is the shared request shape for optional audio
// properties. Nil fields are left at their defaults.
type propertyOverridesRequest struct {
	SampleRate *int     `json:"sample_rate" validate:"omitempty,gt=0"`
	BitDepth   *int     `json:"bit_depth" validate:"omitempty,gt=0"`
	Channels   *int     `json:"channels" validate:"omitempty,gt=0"`
	Duration   *float64 `json:"duration" validate:"omitempty,gte=0"`
}

func (r propertyOverridesRequest) overrides() service.PropertyOverrides {
	return service.PropertyOverrides{
		SampleRate: r.SampleRate,
		BitDepth:   r.BitDepth,
		Channels:   r.Channels,
		Duration:   r.Duration,
	}
}
