package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Skipf("no user cache directory: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		input, dir, want string
	}{
		{"trip.toml", "", "trip"},
		{"photos/trip.json", "", "photos/trip"},
		{"photos/trip.toml", "out", filepath.Join("out", "trip")},
		{"noext", "", "noext"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.input, tt.dir); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.dir, got, tt.want)
		}
	}
}
