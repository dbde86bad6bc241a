// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/internal/container"
)

const imageDocling = "docling:latest"

// Docling converts documents by piping them through the docling container
// image. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type Docling struct {
	runtime container.Runtime
	opts    Options
}

// NewDocling creates a converter that uses the given container runtime to
// run the docling image. It verifies that the image exists locally before
// returning.
func NewDocling(rt container.Runtime, opts Options) (*Docling, error) {
	if err := rt.ImageExists(imageDocling); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &Docling{runtime: rt, opts: opts}, nil
}

// Convert reads the document at path, pipes it through the docling
// container, and returns the resulting Markdown as a Document.
func (d *Docling) Convert(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var args []string
	if d.opts.OCR {
		args = append(args, "--ocr")
	}

	var out bytes.Buffer
	if err := d.runtime.Run(imageDocling, args, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with docling: %w", path, err)
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("docling produced empty output for %s", path)
	}

	format := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	return &Document{
		SourcePath: path,
		Format:     format,
		markdown:   out.String(),
	}, nil
}
