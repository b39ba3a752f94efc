package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore persists the bearer token of the current session. At most
// one token is stored at a time.
type CredentialStore interface {
	// Load returns the stored token, or ErrNoCredential.
	Load() (string, error)
	// Save replaces the stored token.
	Save(token string) error
	// Delete removes the stored token. Deleting an absent token is not an
	// error.
	Delete() error
}

// HasCredential reports whether s currently holds a token. Read errors count
// as absent.
func HasCredential(s CredentialStore) bool {
	if s == nil {
		return false
	}
	token, err := s.Load()
	return err == nil && token != ""
}

// FileCredentialStore keeps the token in a single file, written atomically
// with 0600 permissions while holding an advisory lock on a sibling lock file.
type FileCredentialStore struct {
	path string
}

// NewFileCredentialStore returns a store backed by path. An empty path selects
// DefaultCredentialPath.
func NewFileCredentialStore(path string) (*FileCredentialStore, error) {
	if path == "" {
		p, err := DefaultCredentialPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve credential path: %w", err)
		}
		path = p
	}
	return &FileCredentialStore{path: path}, nil
}

// Path returns the credential file path.
func (s *FileCredentialStore) Path() string {
	return s.path
}

// Load reads the token from disk. Symlinks are rejected, matching the config
// loader.
func (s *FileCredentialStore) Load() (string, error) {
	fi, err := os.Lstat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("failed to stat credential file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("symlink not allowed in credential path: %s", s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// Save writes token atomically.
func (s *FileCredentialStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to store an empty credential")
	}
	return s.withLock(func() error {
		if err := AtomicWriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write credential file: %w", err)
		}
		return nil
	})
}

// Delete removes the credential file.
func (s *FileCredentialStore) Delete() error {
	return s.withLock(func() error {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove credential file: %w", err)
		}
		return nil
	})
}

func (s *FileCredentialStore) withLock(fn func() error) (err error) {
	if err := ensureParentDir(s.path); err != nil {
		return err
	}
	lock, err := acquireLock(lockPathFor(s.path), lockWait)
	if err != nil {
		return fmt.Errorf("failed to lock credential file: %w", err)
	}
	defer func() {
		if rerr := lock.release(); rerr != nil && err == nil {
			err = fmt.Errorf("failed to release credential lock: %w", rerr)
		}
	}()
	return fn()
}

func ensureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	return nil
}

// MemoryCredentialStore is an in-process CredentialStore, used by tests and
// by callers that must not touch the user's credential file.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryCredentialStore returns a store seeded with token (may be empty).
func NewMemoryCredentialStore(token string) *MemoryCredentialStore {
	return &MemoryCredentialStore{token: token}
}

func (s *MemoryCredentialStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoCredential
	}
	return s.token, nil
}

func (s *MemoryCredentialStore) Save(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty credential")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryCredentialStore) Delete() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Ensure implementations satisfy CredentialStore at compile time
var (
	_ CredentialStore = (*FileCredentialStore)(nil)
	_ CredentialStore = (*MemoryCredentialStore)(nil)
)
