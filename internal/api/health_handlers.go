package api

import (
	"net/http"

	"github.com/audiolabapp/audiolab-server/internal/http/response"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
	Search bool   `json:"search"`
}

// handleHealthCheck reports service liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthResponse{
		Status: "ok",
		Search: s.searchIndex != nil,
	}, s.logger)
}
