package version

import (
	"strings"
	"testing"
)

func setBuild(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = version, commit, buildTime
}

func TestGetUsesLinkedValues(t *testing.T) {
	setBuild(t, "1.4.0", "3f2a9c1d8e", "2026-01-15T10:30:00Z")

	info := Get()
	if info.Version != "1.4.0" {
		t.Errorf("expected version '1.4.0', got %q", info.Version)
	}
	if info.Commit != "3f2a9c1" {
		t.Errorf("expected commit truncated to '3f2a9c1', got %q", info.Commit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("expected linked build time, got %q", info.BuildTime)
	}
	if info.GoVersion == "" {
		t.Error("expected go version from build info")
	}
}

func TestGetRelease(t *testing.T) {
	tests := []struct {
		version string
		release bool
	}{
		{"dev", false},
		{"1.0.0-dirty", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			setBuild(t, tt.version, "abc1234", "")
			if got := Get().Release; got != tt.release {
				t.Errorf("expected release=%v, got %v", tt.release, got)
			}
		})
	}
}

func TestShort(t *testing.T) {
	setBuild(t, "1.4.0", "3f2a9c1", "")

	short := Short()
	if !strings.HasPrefix(short, "1.4.0-3f2a9c1") {
		t.Errorf("expected '1.4.0-3f2a9c1' prefix, got %q", short)
	}
	if Get().Modified != strings.HasSuffix(short, "-dirty") {
		t.Errorf("dirty marker does not match build info: %q", short)
	}
}

func TestShortDev(t *testing.T) {
	setBuild(t, "dev", "", "")

	if short := Short(); !strings.HasPrefix(short, "dev") {
		t.Errorf("expected short version to start with 'dev', got %q", short)
	}
}
