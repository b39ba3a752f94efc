package storage

import "errors"

var (
	// ErrWouldBlock is returned when the credential lock is held by another
	// process.
	ErrWouldBlock = errors.New("credential file is locked by another process")

	// ErrNoCredential is returned by CredentialStore.Load when no token is
	// stored.
	ErrNoCredential = errors.New("no stored credential")
)
