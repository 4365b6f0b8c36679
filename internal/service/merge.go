package service

import (
	"context"
	"fmt"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
	"github.com/audiolabapp/audiolab-server/internal/id"
)

// MergeSegments concatenates the given segments into one new Audio
// record. Format, sample rate, bit depth, and channels come from the
// first segment's parent; later parents' properties are ignored even if
// they differ.
//
// Duration is the sum of segment durations, minus crossfade seconds per
// join when crossfade is positive and more than one segment merges.
// There is no floor: a crossfade longer than the material drives the
// duration negative, and the core persists what the arithmetic says.
func (s *AudioService) MergeSegments(ctx context.Context, segmentIDs []string, crossfade float64) (*domain.Audio, error) {
	if len(segmentIDs) == 0 {
		return nil, apperrors.InvalidArgument("merge requires at least one segment")
	}

	total := 0.0
	var firstParent *domain.Audio
	for _, segID := range segmentIDs {
		seg, err := s.store.GetSegment(ctx, segID)
		if err != nil {
			return nil, err
		}

		// Every parent must exist, not just the first one, so a segment
		// whose audio record is gone fails the merge instead of slipping
		// into the output.
		parent, err := s.store.GetAudio(ctx, seg.AudioID)
		if err != nil {
			return nil, err
		}
		if firstParent == nil {
			firstParent = parent
		}

		total += seg.Duration()
	}

	if crossfade > 0 && len(segmentIDs) > 1 {
		total -= crossfade * float64(len(segmentIDs)-1)
	}

	newID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio id: %w", err)
	}

	merged := domain.NewAudio(newID, domain.DerivedFilePath("merged", newID, firstParent.Format), firstParent.Format)
	merged.SampleRate = firstParent.SampleRate
	merged.BitDepth = firstParent.BitDepth
	merged.Channels = firstParent.Channels
	merged.Duration = total

	if err := s.store.PutAudio(ctx, merged); err != nil {
		return nil, fmt.Errorf("persist audio: %w", err)
	}

	s.logger.Info("segments merged",
		"audio_id", merged.ID,
		"segments", len(segmentIDs),
		"crossfade", crossfade,
		"duration", merged.Duration,
	)

	return merged, nil
}
