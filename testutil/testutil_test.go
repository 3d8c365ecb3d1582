package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempFilePath_RemovedAfterTest(t *testing.T) {
	var path string
	t.Run("write", func(t *testing.T) {
		path = TempFilePath(t, "sample_*.txt")
		if !strings.HasPrefix(filepath.Base(path), "sample_") {
			t.Errorf("path %q does not follow the pattern", path)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("file should not exist yet, stat returned %v", err)
		}
		if err := os.WriteFile(path, []byte("1 1 2\n"), 0644); err != nil {
			t.Fatal(err)
		}
	})

	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Errorf("temporary directory %s left behind after the test", filepath.Dir(path))
	}
}
