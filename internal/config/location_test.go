package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv("NUTRI_CONFIG", "/tmp/custom-nutri-config")
	got, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/custom-nutri-config" {
		t.Errorf("GetConfigPath() = %q", got)
	}
}

func TestGetConfigPathDefault(t *testing.T) {
	t.Setenv("NUTRI_CONFIG", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".nutri", "config"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}
