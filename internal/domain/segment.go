package domain

import (
	"time"

	"github.com/audiolabapp/audiolab-server/internal/errors"
)

// Segment represents a time sub-range of exactly one parent Audio.
//
// Segments are immutable after creation. The parent reference is
// non-owning: deleting a segment never deletes its parent, and the
// parent does not track its segments.
type Segment struct {
	ID        string    `json:"id"`
	AudioID   string    `json:"audio_id"`
	StartTime float64   `json:"start_time"`
	EndTime   float64   `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSegment builds a Segment after validating the time range.
// EndTime must be strictly greater than StartTime; a degenerate or
// inverted range fails validation before anything is persisted.
func NewSegment(id, audioID string, startTime, endTime float64) (*Segment, error) {
	if endTime <= startTime {
		return nil, errors.Validationf("segment end_time %.3f must be greater than start_time %.3f", endTime, startTime)
	}
	return &Segment{
		ID:        id,
		AudioID:   audioID,
		StartTime: startTime,
		EndTime:   endTime,
		CreatedAt: time.Now(),
	}, nil
}

// Duration returns the segment length in seconds.
// Computed on read, never stored.
func (s *Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}
