// Package store persists JSON state files shared between independently
// scheduled runs. Every load takes a shared lock and every save an exclusive
// one, so a concurrent reader never observes a partial write.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// ErrCorrupt marks a state file that exists but cannot be parsed. Callers
// must surface it distinctly from the missing-file bootstrap case so
// operators can tell "never ran" from "data loss".
var ErrCorrupt = errors.New("corrupt state file")

type FileStore struct {
	dir    string
	logger *zap.Logger
}

func New(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Locking goes through a sidecar .lock file so the data file itself can be
// atomically renamed over while the lock is held.
func (s *FileStore) lock(name string) *flock.Flock {
	return flock.New(s.path(name) + ".lock")
}

// Load reads name into v under a shared lock. A missing file returns
// (false, nil) for the first-run bootstrap; a present but unparsable one
// wraps ErrCorrupt.
func (s *FileStore) Load(name string, v any) (bool, error) {
	lk := s.lock(name)
	if err := lk.RLock(); err != nil {
		return false, fmt.Errorf("acquire shared lock for %s: %w", name, err)
	}
	defer lk.Unlock()

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	if s.logger != nil {
		s.logger.Debug("state loaded", zap.String("file", name), zap.Int("bytes", len(data)))
	}
	return true, nil
}

// Save writes v to name under an exclusive lock: marshal, write a temp file
// in the same directory, rename over the target.
func (s *FileStore) Save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	lk := s.lock(name)
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("acquire exclusive lock for %s: %w", name, err)
	}
	defer lk.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	if s.logger != nil {
		s.logger.Debug("state saved", zap.String("file", name), zap.Int("bytes", len(data)))
	}
	return nil
}
