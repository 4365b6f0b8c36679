// Package store defines the identity-keyed persistence contract for audio
// and segment records, plus the default Badger-backed implementation.
//
// Audio and Segment share one identifier namespace: a given ID resolves to
// at most one record of either kind. Records are persisted inside an
// envelope carrying an explicit kind tag, so loading never has to guess a
// record's kind from its field shape.
package store

import (
	"context"

	"github.com/audiolabapp/audiolab-server/internal/domain"
	apperrors "github.com/audiolabapp/audiolab-server/internal/errors"
)

// Kind tags a persisted record's type.
type Kind string

// Record kinds.
const (
	KindAudio   Kind = "audio"
	KindSegment Kind = "segment"
)

// Record is a kind-tagged envelope returned by kind-agnostic loads.
// Exactly one of Audio/Segment is set, matching Kind.
type Record struct {
	Kind    Kind            `json:"kind"`
	Audio   *domain.Audio   `json:"audio,omitempty"`
	Segment *domain.Segment `json:"segment,omitempty"`
}

// Store is the persistence interface for audio and segment records.
//
// Put overwrites any existing entry under the same ID. Get fails with the
// not-found domain error when no entry exists. Loading an entry whose
// envelope carries an unknown kind fails with the malformed-record domain
// error. Each Put is atomic and immediately visible to subsequent Gets;
// no cross-record transactions are offered or needed.
type Store interface {
	PutAudio(ctx context.Context, audio *domain.Audio) error
	GetAudio(ctx context.Context, id string) (*domain.Audio, error)
	PutSegment(ctx context.Context, segment *domain.Segment) error
	GetSegment(ctx context.Context, id string) (*domain.Segment, error)

	// GetRecord loads a record without knowing its kind up front.
	GetRecord(ctx context.Context, id string) (*Record, error)

	Close() error
}

// validate checks a loaded envelope for internal consistency.
func (r *Record) validate(id string) error {
	switch r.Kind {
	case KindAudio:
		if r.Audio == nil {
			return apperrors.MalformedRecordf("record %s tagged audio but carries no audio payload", id)
		}
	case KindSegment:
		if r.Segment == nil {
			return apperrors.MalformedRecordf("record %s tagged segment but carries no segment payload", id)
		}
	default:
		return apperrors.MalformedRecordf("record %s has unknown kind %q", id, r.Kind)
	}
	return nil
}

// asAudio narrows a record to its audio payload.
func (r *Record) asAudio(id string) (*domain.Audio, error) {
	if r.Kind != KindAudio {
		return nil, apperrors.InvalidArgumentf("record %s is a %s, not an audio", id, r.Kind)
	}
	return r.Audio, nil
}

// asSegment narrows a record to its segment payload.
func (r *Record) asSegment(id string) (*domain.Segment, error) {
	if r.Kind != KindSegment {
		return nil, apperrors.InvalidArgumentf("record %s is a %s, not a segment", id, r.Kind)
	}
	return r.Segment, nil
}
