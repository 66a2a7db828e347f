package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockTimeout is returned when a lock could not be acquired in time
var ErrLockTimeout = errors.New("timeout acquiring file lock")

// LockConfig holds configuration for file locking behavior
type LockConfig struct {
	Timeout    time.Duration
	RetryDelay time.Duration
}

// DefaultLockConfig returns the lock settings used for history snapshots
func DefaultLockConfig() LockConfig {
	return LockConfig{
		Timeout:    5 * time.Second,
		RetryDelay: 50 * time.Millisecond,
	}
}

// FileLock is an advisory flock held on a sidecar "<path>.lock" file so
// two agentflow processes never interleave writes to the same snapshot.
type FileLock struct {
	path     string
	lockPath string
	file     *os.File
}

func NewFileLock(path string) *FileLock {
	return &FileLock{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Lock blocks until the lock is held or the timeout elapses
func (fl *FileLock) Lock(cfg LockConfig) error {
	if fl.file != nil {
		return errors.New("file is already locked")
	}

	if err := os.MkdirAll(filepath.Dir(fl.lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(fl.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(cfg.Timeout)
	for {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			fl.file = file
			return nil
		}
		if err != syscall.EWOULDBLOCK {
			file.Close()
			return fmt.Errorf("failed to acquire system lock: %w", err)
		}
		if time.Now().After(deadline) {
			file.Close()
			return fmt.Errorf("%w on %s after %v", ErrLockTimeout, fl.path, cfg.Timeout)
		}
		time.Sleep(cfg.RetryDelay)
	}
}

// Unlock releases the lock. The sidecar file is left in place; removing
// it would race with a process already blocked on it.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	var lastErr error
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		lastErr = fmt.Errorf("failed to release system lock: %w", err)
	}
	if err := fl.file.Close(); err != nil && lastErr == nil {
		lastErr = fmt.Errorf("failed to close lock file: %w", err)
	}
	fl.file = nil
	return lastErr
}

func (fl *FileLock) IsLocked() bool {
	return fl.file != nil
}

// WithLock executes fn while holding the lock for path
func WithLock(path string, cfg LockConfig, fn func() error) (err error) {
	lock := NewFileLock(path)
	if err := lock.Lock(cfg); err != nil {
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()
	return fn()
}

// AtomicWrite replaces path with data via a locked temp-file rename
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return WithLock(path, DefaultLockConfig(), func() error {
		tempPath := path + ".tmp"
		if err := os.WriteFile(tempPath, data, perm); err != nil {
			return fmt.Errorf("failed to write temporary file: %w", err)
		}
		if err := os.Rename(tempPath, path); err != nil {
			os.Remove(tempPath)
			return fmt.Errorf("failed to rename temporary file: %w", err)
		}
		return nil
	})
}
