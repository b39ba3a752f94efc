package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "credential")

		if err := AtomicWriteFile(filename, []byte("tok"), 0600); err != nil {
			t.Fatalf("AtomicWriteFile failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read back file: %v", err)
		}
		if string(got) != "tok" {
			t.Errorf("content mismatch: got %q", got)
		}
		if runtime.GOOS != "windows" {
			fi, err := os.Stat(filename)
			if err != nil {
				t.Fatal(err)
			}
			if fi.Mode().Perm() != 0600 {
				t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
			}
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "credential")
		if err := os.WriteFile(filename, []byte("old"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := AtomicWriteFile(filename, []byte("new"), 0600); err != nil {
			t.Fatal(err)
		}
		got, _ := os.ReadFile(filename)
		if string(got) != "new" {
			t.Errorf("content = %q, want new", got)
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("directory sabotage behaves differently on Windows")
		}
		tempDir := t.TempDir()
		parent := filepath.Join(tempDir, "parent")
		if err := os.WriteFile(parent, []byte("file"), 0644); err != nil {
			t.Fatal(err)
		}
		filename := filepath.Join(parent, "credential")

		if err := AtomicWriteFile(filename, []byte("data"), 0600); err == nil {
			t.Fatal("expected an error")
		}
		if _, err := os.Stat(filename); err == nil {
			t.Error("file should not exist")
		}
	})

	t.Run("rename failure cleans up temp file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "credential")
		if err := os.Mkdir(filename, 0755); err != nil {
			t.Fatal(err)
		}

		err := AtomicWriteFile(filename, []byte("data"), 0600)
		if err == nil {
			t.Fatal("expected an error")
		}

		var renameErr RenameError
		if !errors.As(err, &renameErr) {
			t.Fatalf("expected RenameError, got %T: %v", err, err)
		}
		if _, statErr := os.Stat(renameErr.TempPath()); !os.IsNotExist(statErr) {
			t.Errorf("temp file %q was not cleaned up", renameErr.TempPath())
		}
	})

	t.Run("nested directories are created", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "a", "b", "credential")
		if err := AtomicWriteFile(filename, []byte("nested"), 0600); err != nil {
			t.Fatalf("AtomicWriteFile failed: %v", err)
		}
		got, _ := os.ReadFile(filename)
		if string(got) != "nested" {
			t.Errorf("content = %q", got)
		}
	})
}
