package sample

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	once := int32(9)
	original := Sample{Values: []int32{5, 5, 3, 3, 9}, Once: &once}

	for _, name := range []string{"sample.txt", "sample.json", "SAMPLE.JSON"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteFile(path, original); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			loaded, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if loaded.Once == nil || *loaded.Once != once {
				t.Errorf("expected once %d, got %v", once, loaded.Once)
			}
			if len(loaded.Values) != len(original.Values) {
				t.Fatalf("expected %d values, got %d", len(original.Values), len(loaded.Values))
			}
			for i := range original.Values {
				if loaded.Values[i] != original.Values[i] {
					t.Errorf("index %d: expected %d, got %d", i, original.Values[i], loaded.Values[i])
				}
			}
		})
	}
}

func TestReadText_CommentsAndBlankLines(t *testing.T) {
	input := `
# hand written sample
4
  4

# trailing comment
7
`
	s, err := ReadText(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Once != nil {
		t.Errorf("expected no once, got %d", *s.Once)
	}
	want := []int32{4, 4, 7}
	if len(s.Values) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.Values)
	}
	for i := range want {
		if s.Values[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], s.Values[i])
		}
	}
}

func TestReadText_InvalidLine(t *testing.T) {
	_, err := ReadText(strings.NewReader("1\n2\nthree\n"))
	if err == nil {
		t.Fatal("expected error for invalid line")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error to name line 3, got %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestJSONToSample_EmptyValues(t *testing.T) {
	s, err := JSONToSample(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Values == nil || len(s.Values) != 0 {
		t.Errorf("expected empty non-nil values, got %v", s.Values)
	}
}

func TestReadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func FuzzReadText(f *testing.F) {
	f.Add("1\n2\n# once: 3\n")
	f.Add("")
	f.Add("#\n\n-1\n")

	f.Fuzz(func(t *testing.T, input string) {
		s, err := ReadText(strings.NewReader(input))
		if err != nil {
			return
		}
		if s.Values == nil {
			t.Error("values must not be nil on success")
		}
	})
}
