package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSegments(t *testing.T) {
	path := writeFile(t, "corpus.txt", "First segment.\n\n  Second segment.  \n\n")
	segments, err := LoadSegments(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"First segment.", "Second segment."}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("segments %v, want %v", segments, want)
	}
}

func TestLoadSegmentsMissingFile(t *testing.T) {
	if _, err := LoadSegments(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadReferencesTxt(t *testing.T) {
	path := writeFile(t, "refs.txt", "ref one\nref two\n")
	refs, err := LoadReferences(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(refs, []string{"ref one", "ref two"}) {
		t.Fatalf("refs %v", refs)
	}
}

func TestLoadReferencesCSV(t *testing.T) {
	path := writeFile(t, "refs.csv", "id,reference\n1,ref one\n2,ref two\n")
	refs, err := LoadReferences(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(refs, []string{"ref one", "ref two"}) {
		t.Fatalf("refs %v", refs)
	}
}

func TestLoadReferencesCSVMissingColumn(t *testing.T) {
	path := writeFile(t, "refs.csv", "id,text\n1,hello\n")
	_, err := LoadReferences(path)
	var malformed *MalformedReferenceError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedReferenceError, got %v", err)
	}
}

func TestLoadReferencesUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "refs.xlsx", "binary")
	var malformed *MalformedReferenceError
	if _, err := LoadReferences(path); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedReferenceError for xlsx, got %v", err)
	}
}

func TestLoadReferencesEmpty(t *testing.T) {
	path := writeFile(t, "refs.txt", "\n\n")
	var malformed *MalformedReferenceError
	if _, err := LoadReferences(path); !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedReferenceError for empty file, got %v", err)
	}
}
