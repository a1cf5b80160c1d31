package store

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	lockSuffix       = ".lock"
	staleLockTimeout = 30 * time.Second
	lockPollInterval = 50 * time.Millisecond
)

var lockTimeout = 5 * time.Second

var (
	// ErrLockTimeout is returned when the lock cannot be acquired within the timeout period.
	ErrLockTimeout = errors.New("store: lock timeout")
)

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+lockSuffix)
}

// WithLock executes fn while holding the lock file of path.
func WithLock(path string, fn func() error) error {
	lockPath := LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	lockFile, err := acquireLock(lockPath)
	if err != nil {
		return err
	}
	defer releaseLock(lockFile, lockPath)

	return fn()
}

// acquireLock creates the lock file exclusively, retrying until the timeout.
// A lock older than staleLockTimeout is removed first.
func acquireLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(lockTimeout)

	for {
		if info, err := os.Stat(lockPath); err == nil {
			if time.Since(info.ModTime()) > staleLockTimeout {
				_ = os.Remove(lockPath)
			}
		}

		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			// pid, for debugging
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			return f, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockPollInterval)
	}
}

func releaseLock(f *os.File, lockPath string) {
	if f != nil {
		_ = f.Close()
	}
	_ = os.Remove(lockPath)
}
