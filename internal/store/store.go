package store

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the processing stage an artifact captures.
type Kind string

const (
	KindRaw        Kind = "raw"
	KindNormalized Kind = "normalized"
	KindAnalyzed   Kind = "analyzed"
)

// ErrNotFound is returned by Get when no artifact exists for (callID, kind).
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore is append-only persistence of the three artifacts per call,
// keyed by call id and kind. Put replaces any prior artifact for the same key
// atomically: a reader never observes a partial write.
type ArtifactStore interface {
	Put(ctx context.Context, callID string, kind Kind, payload []byte) error
	Get(ctx context.Context, callID string, kind Kind) ([]byte, error)
}

// PersistenceError wraps a failed artifact write. It propagates out of the
// pipeline: silently losing an analyzed artifact would make the call invisible
// downstream.
type PersistenceError struct {
	CallID string
	Kind   Kind
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s artifact for call %s: %v", e.Kind, e.CallID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
