package version

import (
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	// Note: Cannot run in parallel due to global variable access

	if Version != "0.1.0" {
		t.Errorf("expected default version '0.1.0', got %q", Version)
	}
	if Commit != "dev" {
		t.Errorf("expected default commit 'dev', got %q", Commit)
	}
}

func TestString(t *testing.T) {
	// Note: Cannot run in parallel due to global variable modification

	originalVersion := Version
	originalCommit := Commit
	defer func() {
		Version = originalVersion
		Commit = originalCommit
	}()

	// Simulate build-time -ldflags
	Version = "1.2.3"
	Commit = "abc123def"

	if got := String(); got != "1.2.3 (abc123def)" {
		t.Errorf("String() = %q", got)
	}
}
