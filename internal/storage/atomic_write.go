package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a temporary file in the target directory and
// renames it over filename, so readers never observe a partial write.
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure path; after a successful rename
	// this is a no-op.
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return RenameError{tempPath: tmpName, err: err}
	}
	return nil
}

// RenameError is returned when the final rename fails. The temp file has been
// removed by the time the caller sees it.
type RenameError struct {
	tempPath string
	err      error
}

func (e RenameError) Error() string {
	return fmt.Sprintf("failed to rename temp file %s: %v", e.tempPath, e.err)
}

func (e RenameError) Unwrap() error { return e.err }

// TempPath returns the temporary file that was being renamed.
func (e RenameError) TempPath() string { return e.tempPath }
