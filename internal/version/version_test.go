package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.Date == "" {
		t.Error("Date should not be empty")
	}

	// GoVersion comes from the runtime, not ldflags
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestGet_DefaultValues(t *testing.T) {
	info := Get()

	// Default version is "0.0.0-dev"
	if info.Version != "0.0.0-dev" && !strings.Contains(info.Version, ".") {
		t.Errorf("Version should be semver format, got %q", info.Version)
	}
}

func TestGet_ReflectsPackageVariables(t *testing.T) {
	info := Get()

	if info.Version != Version {
		t.Errorf("Version = %q, want package variable %q", info.Version, Version)
	}
	if info.Commit != Commit {
		t.Errorf("Commit = %q, want package variable %q", info.Commit, Commit)
	}
	if info.Date != Date {
		t.Errorf("Date = %q, want package variable %q", info.Date, Date)
	}
}

func TestPackageVariables(t *testing.T) {
	// These are set at build time, but have defaults
	if Version == "" {
		t.Error("Version variable should have a default value")
	}
	if Commit == "" {
		t.Error("Commit variable should have a default value")
	}
	if Date == "" {
		t.Error("Date variable should have a default value")
	}
}
