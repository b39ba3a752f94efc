package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/config"
)

func TestHelpCommand(t *testing.T) {
	r := NewRegistry()
	help := NewHelpCommand(r)
	r.Register(help)
	r.Register(newEcho())

	var stdout, stderr bytes.Buffer
	require.NoError(t, help.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Available commands:")
	assert.Contains(t, stdout.String(), "Echo arguments")

	stdout.Reset()
	require.NoError(t, help.Execute([]string{"echo"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Command: echo")
	assert.Contains(t, stdout.String(), "Flags:")

	assert.Error(t, help.Execute([]string{"nope"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command: nope")
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, NewVersionCommand("1.2.3").Execute(nil, &stdout, &stdout))
	assert.Equal(t, "nutri version 1.2.3\n", stdout.String())
}

func TestConfigCommand(t *testing.T) {
	unsetenv(t, "NUTRI_API_TIMEOUT", "NUTRI_LOG_LEVEL")
	path := filepath.Join(t.TempDir(), "config")
	cfg := config.NewConfig()
	cmd := NewConfigCommand(cfg, path)
	var stdout, stderr bytes.Buffer

	require.NoError(t, cmd.Execute([]string{"api.timeout", "45s"}, &stdout, &stderr))
	assert.Equal(t, "Set configuration: api.timeout = 45s\n", stdout.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api.timeout 45s")

	stdout.Reset()
	require.NoError(t, cmd.Execute([]string{"api.timeout"}, &stdout, &stderr))
	assert.Equal(t, "api.timeout: 45s\n", stdout.String())

	stdout.Reset()
	require.NoError(t, cmd.Execute([]string{"log.level"}, &stdout, &stderr))
	assert.Equal(t, "log.level: info\n", stdout.String(), "schema default")

	stdout.Reset()
	require.NoError(t, cmd.Execute([]string{"no.such"}, &stdout, &stderr))
	assert.Equal(t, "Configuration key 'no.such' not found\n", stdout.String())

	err = cmd.Execute([]string{"api.circuit-breaker", "maybe"}, &stdout, &stderr)
	var usage *UsageError
	require.ErrorAs(t, err, &usage)

	err = cmd.Execute([]string{"a", "b", "c"}, &stdout, &stderr)
	require.ErrorAs(t, err, &usage)
}

func TestConfigCommand_AllAndSchema(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetCommandOption("plan", "day", "Friday")
	cmd := NewConfigCommand(cfg, "")
	r := NewRegistry()
	r.Register(cmd)
	var stdout, stderr bytes.Buffer

	require.NoError(t, r.Run("config", []string{"--all"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "nutrition.history-size")
	assert.Contains(t, stdout.String(), "[plan]")
	assert.Contains(t, stdout.String(), "Friday")

	stdout.Reset()
	require.NoError(t, r.Run("config", []string{"schema"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Global Options:")
	assert.Contains(t, stdout.String(), "[ui] Options:")
}

func TestConfigCommand_Validate(t *testing.T) {
	cfg := config.NewConfig()
	var stdout, stderr bytes.Buffer

	require.NoError(t, NewConfigCommand(cfg, "").Execute([]string{"validate"}, &stdout, &stderr))
	assert.Equal(t, "Configuration is valid.\n", stdout.String())

	cfg.SetGlobalOption("api.timeout", "forever")
	cfg.SetGlobalOption("colour", "blue")
	stdout.Reset()
	err := NewConfigCommand(cfg, "").Execute([]string{"validate"}, &stdout, &stderr)
	assert.EqualError(t, err, "configuration has 2 issue(s)")
	assert.Contains(t, stdout.String(), `unknown global option: "colour"`)
	assert.Contains(t, stdout.String(), `global option "api.timeout"`)
}
