package testutil

import (
	"os"
	"runtime"
	"testing"
)

// Platform captures the current test execution environment.
type Platform struct {
	IsUnix    bool
	IsWindows bool
	IsRoot    bool
	UID       int
}

// DetectPlatform inspects the current runtime environment.
func DetectPlatform(t testing.TB) Platform {
	t.Helper()
	uid := os.Geteuid()
	return Platform{
		IsUnix:    runtime.GOOS != "windows",
		IsWindows: runtime.GOOS == "windows",
		IsRoot:    uid == 0,
		UID:       uid,
	}
}

// SkipIfWindows skips the test on Windows, where file modes and symlinks
// behave differently.
func SkipIfWindows(t testing.TB, reason string) {
	t.Helper()
	if DetectPlatform(t).IsWindows {
		t.Skipf("Skipping test - %s (Windows platform detected)", reason)
	}
}

// SkipIfRoot skips tests that rely on permission failures root bypasses.
func SkipIfRoot(t testing.TB, reason string) {
	t.Helper()
	if DetectPlatform(t).IsRoot {
		t.Skipf("Skipping test - %s (requires non-root user, running as UID 0)", reason)
	}
}
