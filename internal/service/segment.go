package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	"github.com/audiolabapp/audiolab-server/internal/engine"
	"github.com/audiolabapp/audiolab-server/internal/id"
)

// DetectVoiceActivity returns the speech intervals the voice activity
// engine finds in the audio. Pure read: nothing is persisted. The
// intervals are ordered, non-overlapping, and lie within [0, duration].
func (s *AudioService) DetectVoiceActivity(ctx context.Context, audioID string) ([]engine.Interval, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	intervals, err := s.engines.VoiceActivity.DetectVoiceActivity(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("voice activity engine: %w", err)
	}

	s.logger.Info("voice activity detected",
		"audio_id", audio.ID,
		"intervals", len(intervals),
	)

	return intervals, nil
}

// SplitByTime cuts the audio at the given interior timestamps. The cut
// points are 0, the sorted timestamps, and the audio's duration; one
// segment is created and persisted per consecutive pair. Empty timestamps
// yield a single full-duration segment.
//
// Timestamps are not filtered: a duplicate or out-of-range value produces
// a pair that fails segment validation, which aborts the split at that
// pair. Segments created before the failure stay persisted and are
// returned alongside the abort error; the partial writes are not hidden.
func (s *AudioService) SplitByTime(ctx context.Context, audioID string, timestamps []float64) ([]*domain.Segment, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	points := make([]float64, 0, len(timestamps)+2)
	points = append(points, 0)
	points = append(points, timestamps...)
	slices.Sort(points[1:])
	points = append(points, audio.Duration)

	segments := make([]*domain.Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		segID, err := id.Generate(id.PrefixSegment)
		if err != nil {
			return nil, fmt.Errorf("generate segment id: %w", err)
		}

		seg, err := domain.NewSegment(segID, audio.ID, points[i], points[i+1])
		if err != nil {
			return segments, fmt.Errorf("split aborted at pair (%.3f, %.3f), %d earlier segments persisted: %w",
				points[i], points[i+1], len(segments), err)
		}

		if err := s.store.PutSegment(ctx, seg); err != nil {
			return nil, fmt.Errorf("persist segment: %w", err)
		}
		segments = append(segments, seg)
	}

	s.logger.Info("audio split by time",
		"audio_id", audio.ID,
		"segments", len(segments),
	)

	return segments, nil
}

// SplitBySilence asks the silence detection engine for split points and
// cuts the audio at them via SplitByTime.
func (s *AudioService) SplitBySilence(ctx context.Context, audioID string, minSilence, threshold float64) ([]*domain.Segment, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	points, err := s.engines.SilenceDetector.DetectSplitPoints(ctx, audio, minSilence, threshold)
	if err != nil {
		return nil, fmt.Errorf("silence detection engine: %w", err)
	}

	s.logger.Info("silence split points detected",
		"audio_id", audio.ID,
		"points", len(points),
	)

	return s.SplitByTime(ctx, audioID, points)
}

// AutoGenerateSegments creates one segment per detected speech interval.
// Unlike SplitByTime the segments may have gaps between them and do not
// tile the full duration.
func (s *AudioService) AutoGenerateSegments(ctx context.Context, audioID string) ([]*domain.Segment, error) {
	audio, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}

	intervals, err := s.engines.VoiceActivity.DetectVoiceActivity(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("voice activity engine: %w", err)
	}

	segments := make([]*domain.Segment, 0, len(intervals))
	for _, iv := range intervals {
		segID, err := id.Generate(id.PrefixSegment)
		if err != nil {
			return nil, fmt.Errorf("generate segment id: %w", err)
		}

		seg, err := domain.NewSegment(segID, audio.ID, iv.Start, iv.End)
		if err != nil {
			return nil, fmt.Errorf("interval (%.3f, %.3f): %w", iv.Start, iv.End, err)
		}

		if err := s.store.PutSegment(ctx, seg); err != nil {
			return nil, fmt.Errorf("persist segment: %w", err)
		}
		segments = append(segments, seg)
	}

	s.logger.Info("segments auto-generated",
		"audio_id", audio.ID,
		"segments", len(segments),
	)

	return segments, nil
}
