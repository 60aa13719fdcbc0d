package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.MapID != 1 || got.BitmapDiff || got.Verbose || got.Root != dir {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolveFromFile(t *testing.T) {
	dir := writeConfig(t, `
map:
  id: 42
markers:
  bitmapDiff: true
log:
  verbose: true
  file: logs/driftmaps.log
`)
	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.MapID != 42 || !got.BitmapDiff || !got.Verbose {
		t.Errorf("Resolve() = %+v", got)
	}
	if want := filepath.Join(dir, "logs", "driftmaps.log"); got.LogFile != want {
		t.Errorf("LogFile = %q, want %q", got.LogFile, want)
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "map:\n  id: 42\nmarkers:\n  bitmapDiff: true\n")
	t.Setenv("DRIFTMAPS_MAP_ID", "7")
	t.Setenv("DRIFTMAPS_BITMAP_DIFF", "false")
	t.Setenv("DRIFTMAPS_LOG_FILE", "/tmp/maps.log")

	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.MapID != 7 || got.BitmapDiff || got.LogFile != "/tmp/maps.log" {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolveEnvInvalid(t *testing.T) {
	t.Setenv("DRIFTMAPS_MAP_ID", "north")
	if _, err := Resolve(t.TempDir()); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("err = %v, want parse env error", err)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"negative id", "map:\n  id: -3\n", "map.id must be positive"},
		{"malformed", "map: [", "failed to parse driftmaps.yaml"},
		{"wrong type", "map:\n  id: abc\n", "failed to parse driftmaps.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
