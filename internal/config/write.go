package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nutrigen/nutri/internal/storage"
)

// SetKeyInFile sets a global option in the config file at path, keeping
// comments and sections intact. An existing global line for key is replaced
// in place; otherwise the line is inserted before the first section header,
// or appended. Keys inside [section] blocks are never touched.
func SetKeyInFile(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	newLine := strings.TrimSpace(key + " " + value)

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(string(data), "\n")
	}

	insertAt := -1
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			insertAt = i
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = newLine
			replaced = true
			break
		}
	}

	switch {
	case replaced:
	case insertAt >= 0:
		lines = append(lines[:insertAt], append([]string{newLine}, lines[insertAt:]...)...)
	case len(lines) > 0 && lines[len(lines)-1] == "":
		lines = append(lines[:len(lines)-1], newLine, "")
	default:
		lines = append(lines, newLine)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return storage.AtomicWriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}
