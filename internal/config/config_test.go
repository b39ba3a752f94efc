package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfigParsing(t *testing.T) {
	configContent := `# Global options
api.base-url http://localhost:5000
log.level   debug

[plan]
day Tuesday

[ui]
start /coach`

	config, err := LoadFromReader(strings.NewReader(configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if value, ok := config.GetGlobalOption("api.base-url"); !ok || value != "http://localhost:5000" {
		t.Errorf("Expected api.base-url, got %q (exists: %v)", value, ok)
	}
	if value, _ := config.GetGlobalOption("log.level"); value != "debug" {
		t.Errorf("Expected log.level=debug (value trimmed), got %q", value)
	}
	if value, ok := config.GetCommandOption("plan", "day"); !ok || value != "Tuesday" {
		t.Errorf("Expected plan.day=Tuesday, got %q (exists: %v)", value, ok)
	}
	if value, ok := config.GetCommandOption("ui", "log.level"); !ok || value != "debug" {
		t.Errorf("Expected ui fallback to global, got %q (exists: %v)", value, ok)
	}
	if value, ok := config.GetCommandOption("nonexistent", "option"); ok {
		t.Errorf("Expected nonexistent option to not exist, but got %s", value)
	}
	if config.HasWarnings() {
		t.Errorf("Expected no warnings, got %v", config.Warnings)
	}
}

func TestEmptyConfig(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Failed to load empty config: %v", err)
	}
	if len(config.Global) != 0 || len(config.Commands) != 0 {
		t.Errorf("Expected empty config, got %v %v", config.Global, config.Commands)
	}
}

func TestConfigWarnings(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader("colour blue\napi.timeout soon\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(config.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", config.Warnings)
	}
	if !strings.Contains(config.Warnings[0], "api.timeout") || !strings.Contains(config.Warnings[1], "colour") {
		t.Errorf("unexpected warnings: %v", config.Warnings)
	}
}

func TestSetGlobalAndCommandOptions(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("log.level", "warn")
	config.SetCommandOption("plan", "day", "Friday")

	if v, _ := config.GetGlobalOption("log.level"); v != "warn" {
		t.Errorf("log.level = %q", v)
	}
	if v, _ := config.GetCommandOption("plan", "day"); v != "Friday" {
		t.Errorf("plan.day = %q", v)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	config, err := LoadFromPath(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if len(config.Global) != 0 {
		t.Errorf("Expected empty config, got %v", config.Global)
	}
}

func TestLoadFromPathRejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("log.level debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "config")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(link); err == nil || !strings.Contains(err.Error(), "symlink") {
		t.Fatalf("Expected symlink error, got %v", err)
	}
}

func TestLoadUsesConfigPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("nutrition.history-size 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUTRI_CONFIG", path)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := config.GetInt("nutrition.history-size"); got != 3 {
		t.Errorf("history-size = %d, want 3", got)
	}
}
