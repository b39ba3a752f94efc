package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the configuration file path: NUTRI_CONFIG when set,
// otherwise ~/.nutri/config.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv("NUTRI_CONFIG"); configPath != "" {
		return configPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nutri", "config"), nil
}
