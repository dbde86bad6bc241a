// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/internal/engine"
	"github.com/pdiddy/doc2md/pkg/types"
)

// DefaultExtensions is the extension list batch mode uses when the caller
// does not override it.
var DefaultExtensions = []string{".pdf", ".docx", ".pptx", ".odt", ".html"}

// defaultOutputDir is the subdirectory created under the input directory
// when no output directory is given.
const defaultOutputDir = "markdown_output"

// BatchResult holds the outcome of a batch conversion run. Items preserves
// discovery order, extension-major.
type BatchResult struct {
	Items     []types.ConversionResult
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Outputs returns the output paths of all files that produced (or kept) a
// Markdown file, in discovery order.
func (r BatchResult) Outputs() []string {
	var out []string
	for _, item := range r.Items {
		if item.Succeeded() {
			out = append(out, item.OutputPath)
		}
	}
	return out
}

// ConvertDir converts every file directly inside dir whose name matches one
// of the extensions (DefaultExtensions when empty). Outputs go to outDir,
// which defaults to dir/markdown_output and is created if missing.
//
// A failure converting one file is logged and recorded; the batch continues
// with the next file. Only setup failures (missing directory, output
// directory creation) abort the run. Per-file status lines go to w.
//
// A file matching several extension patterns is converted once: items are
// deduplicated by resolved output path.
func (c *Converter) ConvertDir(dir, outDir string, extensions []string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("directory %s does not exist: %w", dir, err)
		}
		return result, fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%s is not a directory", dir)
	}

	if outDir == "" {
		outDir = filepath.Join(dir, defaultOutputDir)
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	seen := make(map[string]bool)
	for _, ext := range extensions {
		normalized := ext
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if !engine.Supported(normalized) {
			c.log.Warn("extension not in the supported format set", "extension", ext)
		}

		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return result, fmt.Errorf("enumerating *%s in %s: %w", ext, dir, err)
		}
		for _, input := range matches {
			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			out := filepath.Join(outDir, base+".md")

			if seen[out] {
				c.log.Debug("already processed in this batch", "input", input, "output", out)
				continue
			}
			seen[out] = true

			item, err := c.ConvertFile(input, out)
			result.Items = append(result.Items, item)
			switch item.Status {
			case types.ConversionDone:
				result.Converted++
				fmt.Fprintf(w, "converted: %s\n", base)
			case types.ConversionSkipped:
				result.Skipped++
				fmt.Fprintf(w, "skipped:   %s (already exists)\n", base)
			case types.ConversionFailed:
				result.Failed++
				c.log.Error("conversion failed", "input", input, "error", err)
				fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}
