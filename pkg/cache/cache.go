package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Locks are taken on a sidecar file rather than the data file itself so that a read miss does not
// create an empty data file, which would look like a zero-byte cache entry to other processes.
func lockFile(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

// Read returns the value stored at path, or nil if the file does not exist or, when ttl is
// positive, if the file's last modification is older than ttl. A nil value with a nil error is a
// cache miss. Decoding failures are returned as errors.
func Read[T any](path string, ttl time.Duration) (*T, error) {
	lock := lockFile(path)
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("cache: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: stat %s: %w", path, err)
	}
	if ttl > 0 && time.Since(info.ModTime()) >= ttl {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache: read %s: %w", path, err)
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", path, err)
	}
	return &value, nil
}

// Write stores value at path, creating parent directories as needed. The value is written to a
// temporary file and renamed into place, so concurrent readers in other processes never observe a
// partial entry. A successful write refreshes the file's modification time, restarting the
// time-to-live clock used by [Read].
func Write[T any](path string, value T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("cache: mkdir %s: %w", dir, err)
	}

	lock := lockFile(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("cache: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("cache: create %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: rename %s: %w", path, err)
	}
	return nil
}
