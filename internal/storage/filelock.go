package storage

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// lockWait bounds how long a writer waits for another nutri process to
// finish with the credential file.
var lockWait = 2 * time.Second

const lockRetry = 20 * time.Millisecond

// credentialLock is an advisory lock on a sidecar file next to the
// credential.
type credentialLock struct {
	f *os.File
}

// acquireLock locks path, retrying while another process holds it. After
// wait it gives up with ErrWouldBlock.
func acquireLock(path string, wait time.Duration) (*credentialLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	deadline := time.Now().Add(wait)
	for {
		err = tryLock(f)
		if err == nil {
			return &credentialLock{f: f}, nil
		}
		if !errors.Is(err, ErrWouldBlock) || !time.Now().Before(deadline) {
			_ = f.Close()
			if errors.Is(err, ErrWouldBlock) {
				return nil, ErrWouldBlock
			}
			return nil, fmt.Errorf("failed to acquire file lock: %w", err)
		}
		time.Sleep(lockRetry)
	}
}

// release unlocks and closes the lock file. The file itself stays: a waiter
// may already have it open. A nil lock is a no-op.
func (l *credentialLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := errors.Join(unlock(l.f), l.f.Close())
	l.f = nil
	return err
}
