package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// FSStore keeps artifacts as JSON files under dir/namespace/kind/, one file
// per call id. Writes go to a temp file in the same directory followed by a
// rename, so replacement is atomic on POSIX filesystems.
type FSStore struct {
	dir       string
	namespace string
}

func NewFSStore(dir, namespace string) (*FSStore, error) {
	s := &FSStore{dir: dir, namespace: namespace}
	for _, k := range []Kind{KindRaw, KindNormalized, KindAnalyzed} {
		if err := os.MkdirAll(s.kindDir(k), 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory: %w", err)
		}
	}
	return s, nil
}

func (s *FSStore) kindDir(kind Kind) string {
	return filepath.Join(s.dir, s.namespace, string(kind))
}

func (s *FSStore) path(callID string, kind Kind) string {
	// Call ids are opaque upstream strings; escape them so they are safe as
	// file names.
	return filepath.Join(s.kindDir(kind), url.PathEscape(callID)+".json")
}

func (s *FSStore) Put(ctx context.Context, callID string, kind Kind, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	dir := s.kindDir(kind)
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	if err := os.Rename(tmpName, s.path(callID, kind)); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, callID string, kind Kind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(callID, kind))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
