package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Baptistemontan/bench-find-odd/sample"
)

// WriteTempConfig writes a TOML configuration into a fresh temporary
// directory and returns its path.
func WriteTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

// WriteTempSample generates a shuffled sample of count pairs minus one value,
// writes it to a temporary file named name and returns the path together
// with the removed value.
func WriteTempSample(t *testing.T, name string, count int32, seed int64) (string, int32) {
	t.Helper()

	s := sample.New(count, rand.New(rand.NewSource(seed)))
	var once int32
	if s.Once != nil {
		once = *s.Once
	}

	path := filepath.Join(t.TempDir(), name)
	if err := sample.WriteFile(path, s); err != nil {
		t.Fatalf("Failed to write temp sample: %v", err)
	}
	return path, once
}

// TempFilePath returns a path matching pattern inside t's temporary
// directory, which is removed when the test or benchmark ends. Does not
// create the file.
func TempFilePath(t testing.TB, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}
