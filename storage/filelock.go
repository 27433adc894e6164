//go:build !windows

package storage

import (
	"fmt"
	"os"
	"syscall"
)

// fileLock holds an exclusive advisory lock on a sidecar lock file so
// two processes never write the store concurrently.
type fileLock struct {
	f *os.File
}

// acquireLock takes an exclusive flock on path. It blocks until the
// lock is available.
func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return &fileLock{f: f}, nil
}

// release drops the lock and closes the lock file.
func (l *fileLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	if err != nil {
		return err
	}
	return closeErr
}
