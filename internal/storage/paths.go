package storage

import (
	"os"
	"path/filepath"
)

// CredentialFileEnv overrides the credential file location.
const CredentialFileEnv = "NUTRI_CREDENTIAL_FILE"

// defaultCredentialPath is a variable so tests can point it at a temp dir.
var defaultCredentialPath = func() (string, error) {
	if p := os.Getenv(CredentialFileEnv); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nutri", "credential"), nil
}

// DefaultCredentialPath returns the credential file path: $NUTRI_CREDENTIAL_FILE
// if set, else ~/.nutri/credential.
func DefaultCredentialPath() (string, error) {
	return defaultCredentialPath()
}

func lockPathFor(path string) string {
	return path + ".lock"
}
