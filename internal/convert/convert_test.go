// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/doc2md/internal/engine"
	"github.com/pdiddy/doc2md/pkg/types"
)

// fakeEngine implements engine.Engine for testing. It returns canned
// Markdown, or an error for inputs listed in failOn.
type fakeEngine struct {
	markdown string
	title    string
	err      error
	failOn   map[string]bool // base names that fail
	calls    []string
}

func (f *fakeEngine) Convert(path string) (*engine.Document, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	if f.failOn[filepath.Base(path)] {
		return nil, errors.New("malformed document")
	}
	return engine.NewDocument(path, "PDF", f.title, f.markdown), nil
}

// writeDoc creates a dummy input file and returns its path.
func writeDoc(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake document"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		explicit string
		want     string
	}{
		{"explicit wins", "report.pdf", "out/custom.md", "out/custom.md"},
		{"pdf sibling", "report.pdf", "", "report.md"},
		{"nested input", filepath.Join("docs", "deck.pptx"), "", filepath.Join("docs", "deck.md")},
		{"no extension", "README", "", "README.md"},
		{"double extension", "archive.tar.gz", "", "archive.tar.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input, tt.explicit); got != tt.want {
				t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestConvertFileDerivedOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "report.pdf")
	c := New(&fakeEngine{markdown: "# Report\n"}, Config{}, nil)

	result, err := c.ConvertFile(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "report.md")
	if result.OutputPath != want {
		t.Errorf("output path = %q, want %q", result.OutputPath, want)
	}
	if result.Status != types.ConversionDone {
		t.Errorf("status = %q, want %q", result.Status, types.ConversionDone)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "# Report\n" {
		t.Errorf("output content = %q", data)
	}

	// The input file must be untouched.
	orig, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != "fake document" {
		t.Errorf("input was modified: %q", orig)
	}
}

func TestConvertFileExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "slides.pptx")
	out := filepath.Join(dir, "renamed.md")
	c := New(&fakeEngine{markdown: "# Slides\n"}, Config{}, nil)

	result, err := c.ConvertFile(input, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OutputPath != out {
		t.Errorf("output path = %q, want %q", result.OutputPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "slides.md")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("derived sibling path should not exist when output is explicit")
	}
}

func TestConvertFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.pdf")
	eng := &fakeEngine{markdown: "should not be called"}
	c := New(eng, Config{}, nil)

	result, err := c.ConvertFile(missing, "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got: %v", err)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error should say the input does not exist, got: %v", err)
	}
	if result.Status != types.ConversionFailed {
		t.Errorf("status = %q, want %q", result.Status, types.ConversionFailed)
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine called %d times for a missing input", len(eng.calls))
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.md")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("no output file may be created for a missing input")
	}
}

func TestConvertFileEngineFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "broken.pdf")
	cause := errors.New("unsupported content stream")
	c := New(&fakeEngine{err: cause}, Config{}, nil)

	result, err := c.ConvertFile(input, "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error should be a ConversionError, got %T", err)
	}
	if convErr.Path != input {
		t.Errorf("ConversionError.Path = %q, want %q", convErr.Path, input)
	}
	if !errors.Is(err, cause) {
		t.Error("ConversionError should carry the original cause")
	}
	if result.Status != types.ConversionFailed {
		t.Errorf("status = %q, want %q", result.Status, types.ConversionFailed)
	}
	if result.Message == "" {
		t.Error("failed result must carry a message")
	}
}

func TestConvertFileWriteFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "report.pdf")
	out := filepath.Join(dir, "no-such-subdir", "report.md")
	c := New(&fakeEngine{markdown: "# Report\n"}, Config{}, nil)

	_, err := c.ConvertFile(input, out)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("write failure should surface as a ConversionError, got %T", err)
	}
}

func TestConvertFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "report.pdf")
	out := filepath.Join(dir, "report.md")
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(&fakeEngine{markdown: "fresh"}, Config{}, nil)

	if _, err := c.ConvertFile(input, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "fresh" {
		t.Errorf("output = %q, want overwritten content", data)
	}
}

func TestConvertFileSkipExisting(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "report.pdf")
	out := filepath.Join(dir, "report.md")
	if err := os.WriteFile(out, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := &fakeEngine{markdown: "should not be written"}
	c := New(eng, Config{SkipExisting: true}, nil)

	result, err := c.ConvertFile(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != types.ConversionSkipped {
		t.Errorf("status = %q, want %q", result.Status, types.ConversionSkipped)
	}
	if len(eng.calls) != 0 {
		t.Error("engine must not run when the output is kept")
	}
	data, _ := os.ReadFile(out)
	if string(data) != "keep me" {
		t.Errorf("existing output was modified: %q", data)
	}
}

func TestConvertFileFrontmatter(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "report.pdf")
	c := New(&fakeEngine{markdown: "# Body\n", title: "Annual Report"}, Config{Frontmatter: true}, nil)

	result, err := c.ConvertFile(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		t.Errorf("output should start with a YAML block, got %q", text)
	}
	for _, want := range []string{"source:", "format: PDF", "title: Annual Report", "converted_at:"} {
		if !strings.Contains(text, want) {
			t.Errorf("frontmatter missing %q in:\n%s", want, text)
		}
	}
	if !strings.HasSuffix(text, "# Body\n") {
		t.Error("body must follow the frontmatter unchanged")
	}
}
