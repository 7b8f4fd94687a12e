package bytestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore is a ByteStore backed by a single file.
//
// SetBytes replaces the file atomically: bytes are written to a temp
// file in the same directory, synced, then renamed over the target.
// Readers never observe a partially written blob.
type LocalStore struct {
	path string
}

var _ ByteStore = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore for the given file path.
// The file need not exist yet; a missing file reads as empty.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// Path returns the backing file path.
func (s *LocalStore) Path() string { return s.path }

// IsEmpty reports whether the file is absent or zero-length.
func (s *LocalStore) IsEmpty(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() == 0, nil
}

// GetBytes reads the whole file, or returns nil when it is absent or empty.
func (s *LocalStore) GetBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// SetBytes atomically replaces the file contents.
func (s *LocalStore) SetBytes(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)

	// Write to a temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	// Match typical file permissions (best-effort).
	_ = tmp.Chmod(0644)

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Atomically replace target.
	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}
