// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/epubdoc"
	"github.com/tsawler/tabula/format"
	"github.com/tsawler/tabula/htmldoc"
	"github.com/tsawler/tabula/odt"
	"github.com/tsawler/tabula/pptx"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/xlsx"
)

// Tabula converts documents in-process with the tabula library. PDFs go
// through layout analysis and table reconstruction; the Office, HTML, and
// EPUB formats use their native readers.
type Tabula struct {
	opts Options
}

// NewTabula creates an in-process engine with the given pipeline options.
func NewTabula(opts Options) *Tabula {
	return &Tabula{opts: opts}
}

// Convert parses the document at path and renders it to Markdown.
func (t *Tabula) Convert(path string) (*Document, error) {
	// EPUB is routed by extension; tabula's format detector does not
	// distinguish it from other ZIP containers.
	if strings.EqualFold(filepath.Ext(path), ".epub") {
		return t.convertEPUB(path)
	}

	switch f := format.Detect(path); f {
	case format.PDF:
		return t.convertPDF(path)
	case format.DOCX:
		return t.convertDOCX(path)
	case format.ODT:
		return t.convertODT(path)
	case format.PPTX:
		return t.convertPPTX(path)
	case format.XLSX:
		return t.convertXLSX(path)
	case format.HTML:
		return t.convertHTML(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}

func (t *Tabula) convertPDF(path string) (*Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer r.Close()

	md, warnings, err := tabula.FromReader(r).ToMarkdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}

	doc := &Document{SourcePath: path, Format: "PDF", markdown: md}
	if len(warnings) > 0 {
		doc.Warnings = append(doc.Warnings, tabula.FormatWarnings(warnings))
	}

	// A PDF with no text layer is a scanned document. Fall back to OCR
	// over the page images when the caller asked for it.
	if t.opts.OCR && strings.TrimSpace(md) == "" {
		recognized, err := t.recognizePages(r)
		if err != nil {
			return nil, fmt.Errorf("OCR fallback for %s: %w", path, err)
		}
		doc.markdown = recognized
	}

	return doc, nil
}

func (t *Tabula) convertDOCX(path string) (*Document, error) {
	r, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "DOCX",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}

func (t *Tabula) convertODT(path string) (*Document, error) {
	r, err := odt.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ODT %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "ODT",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}

func (t *Tabula) convertPPTX(path string) (*Document, error) {
	r, err := pptx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PPTX %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "PPTX",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}

func (t *Tabula) convertXLSX(path string) (*Document, error) {
	r, err := xlsx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "XLSX",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}

func (t *Tabula) convertHTML(path string) (*Document, error) {
	r, err := htmldoc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening HTML %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "HTML",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}

func (t *Tabula) convertEPUB(path string) (*Document, error) {
	r, err := epubdoc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening EPUB %s: %w", path, err)
	}
	defer r.Close()

	md, err := r.Markdown()
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", path, err)
	}
	return &Document{
		SourcePath: path,
		Format:     "EPUB",
		Title:      r.Metadata().Title,
		markdown:   md,
	}, nil
}
