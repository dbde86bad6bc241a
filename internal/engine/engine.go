// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine defines the document-conversion boundary. The orchestration
// layer never parses documents itself; it hands a path to an Engine and gets
// back an in-memory Document that renders to Markdown. Backends (in-process
// tabula, containerized docling) implement this interface.
package engine

import "strings"

// Options are the pipeline toggles recognized by every backend.
type Options struct {
	// OCR enables optical character recognition for scanned, image-only
	// pages during PDF processing.
	OCR bool

	// TableStructure enables table layout reconstruction. It is always on;
	// no backend exposes a way to disable it.
	TableStructure bool
}

// DefaultOptions returns the standard pipeline configuration: no OCR,
// table reconstruction enabled.
func DefaultOptions() Options {
	return Options{TableStructure: true}
}

// Engine parses a source document into an in-memory Document.
type Engine interface {
	// Convert reads the document at path and returns its parsed
	// representation. It fails on unreadable, corrupt, or unsupported input.
	Convert(path string) (*Document, error)
}

// Document is an engine's parsed representation of one input file, prior to
// Markdown rendering.
type Document struct {
	// SourcePath is the file the document was parsed from.
	SourcePath string

	// Format is the detected format name (e.g. "PDF", "DOCX").
	Format string

	// Title is the document title from embedded metadata, when present.
	Title string

	// Warnings lists non-fatal issues encountered during parsing.
	Warnings []string

	markdown string
}

// NewDocument builds a Document around already-rendered Markdown. It exists
// so fake engines in tests can produce documents without parsing anything.
func NewDocument(sourcePath, format, title, markdown string) *Document {
	return &Document{
		SourcePath: sourcePath,
		Format:     format,
		Title:      title,
		markdown:   markdown,
	}
}

// ExportMarkdown renders the document as Markdown text. The result is
// deterministic for a given Document.
func (d *Document) ExportMarkdown() string {
	return d.markdown
}

// supportedExtensions is the fixed set of input formats the engines accept,
// in the order reported to the user.
var supportedExtensions = []string{
	".pdf", ".docx", ".pptx", ".odt", ".xlsx", ".html", ".htm", ".epub",
}

// SupportedExtensions returns the extensions of all supported input formats.
func SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// Supported reports whether ext (with leading dot, any case) names a
// supported input format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range supportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}
