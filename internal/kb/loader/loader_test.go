package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

func writeTemp(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed writing temp file: %v", err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	l := New()
	_, err := l.Load(filepath.Join(t.TempDir(), "nope.txt"), "")
	if !errors.Is(err, kbModel.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	l := New()
	path := writeTemp(t, "image.png", "not text")
	_, err := l.Load(path, "")
	if !errors.Is(err, kbModel.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_PlainTextAndMarkdown(t *testing.T) {
	l := New()
	tests := []struct {
		name    string
		content string
	}{
		{"notes.txt", "Paris is the capital of France."},
		{"readme.md", "# Title\n\nSome body text."},
	}

	for _, tc := range tests {
		path := writeTemp(t, tc.name, tc.content)
		units, err := l.Load(path, "")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(units) != 1 {
			t.Fatalf("%s: expected 1 unit, got %d", tc.name, len(units))
		}
		if units[0].Content != tc.content {
			t.Errorf("%s: content changed: %q", tc.name, units[0].Content)
		}
		if units[0].SourceMetadata["source"] != path {
			t.Errorf("%s: source metadata missing", tc.name)
		}
	}
}

func TestLoad_CSVRowPerUnit(t *testing.T) {
	l := New()
	path := writeTemp(t, "cities.csv", "city,country\nParis,France\nBerlin,Germany\n")

	units, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(units))
	}
	if !strings.Contains(units[0].Content, "city: Paris") || !strings.Contains(units[0].Content, "country: France") {
		t.Errorf("Header names missing from row content: %q", units[0].Content)
	}
	if units[0].SourceMetadata["row"] != "1" || units[1].SourceMetadata["row"] != "2" {
		t.Errorf("Row metadata wrong: %+v %+v", units[0].SourceMetadata, units[1].SourceMetadata)
	}
}

func TestLoad_JSONArrayElementPerUnit(t *testing.T) {
	l := New()
	path := writeTemp(t, "facts.json", `[{"q": "capital"}, {"q": "population"}]`)

	units, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(units))
	}
	if units[1].SourceMetadata["index"] != "1" {
		t.Errorf("Index metadata wrong: %+v", units[1].SourceMetadata)
	}
	if !strings.Contains(units[0].Content, "capital") {
		t.Errorf("Element content missing: %q", units[0].Content)
	}
}

func TestLoad_JSONObjectIsOneUnit(t *testing.T) {
	l := New()
	content := `{"city": "Paris"}`
	path := writeTemp(t, "one.json", content)

	units, err := l.Load(path, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("Expected 1 unit, got %d", len(units))
	}
	if units[0].Content != content {
		t.Errorf("Top-level object should pass through unchanged: %q", units[0].Content)
	}
}

func TestLoad_HintOverridesExtension(t *testing.T) {
	l := New()
	path := writeTemp(t, "export.dat", "plain text masquerading as dat")

	units, err := l.Load(path, "txt")
	if err != nil {
		t.Fatalf("Hint should force the text extractor: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("Expected 1 unit, got %d", len(units))
	}
}

func TestResolveType(t *testing.T) {
	tests := []struct {
		path string
		hint string
		want kbModel.DocType
	}{
		{"a.txt", "", kbModel.TXT},
		{"a.MD", "", kbModel.MD},
		{"a.markdown", "", kbModel.MD},
		{"a.csv", "", kbModel.CSV},
		{"a.json", "", kbModel.JSON},
		{"a.xlsx", "", kbModel.XLSX},
		{"a.PDF", "", kbModel.PDF},
		{"a.docx", "", kbModel.OFFICE},
		{"a.rtf", "", kbModel.OFFICE},
		{"a.bin", ".pdf", kbModel.PDF},
		{"a.bin", "", kbModel.Unknown},
		{"noext", "", kbModel.Unknown},
	}

	for _, tc := range tests {
		if got := ResolveType(tc.path, tc.hint); got != tc.want {
			t.Errorf("ResolveType(%q, %q) = %s, want %s", tc.path, tc.hint, got, tc.want)
		}
	}
}
