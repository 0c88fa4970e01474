package kv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// File stores each key as <dir>/<key>.json. Writes go through a temp file and
// rename, serialized across processes by a lock file in the same directory.
type File struct {
	dir string
	flk *flock.Flock
}

// NewFile creates a file-backed store at dir.
// The directory will be created if it doesn't exist.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &File{
		dir: dir,
		flk: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Path returns the file that holds key.
func (s *File) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *File) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	if err := s.flk.RLock(); err != nil {
		return nil, false, fmt.Errorf("acquiring read lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

func (s *File) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("acquiring write lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Close releases the lock file handle.
func (s *File) Close() error {
	return s.flk.Close()
}
