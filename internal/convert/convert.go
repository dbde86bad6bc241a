// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements document-to-Markdown conversion: single files,
// directory batches, and output-path resolution. The actual parsing is done
// by an injected engine.Engine; this package only orchestrates it.
package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/internal/engine"
	"github.com/pdiddy/doc2md/pkg/types"
)

// Config holds the orchestration options fixed at Converter construction.
type Config struct {
	// Frontmatter prepends a YAML metadata block to each output file.
	Frontmatter bool

	// SkipExisting leaves already-present Markdown outputs untouched
	// instead of overwriting them.
	SkipExisting bool
}

// Converter converts documents through an injected engine and persists the
// resulting Markdown. All configuration is captured at construction; a
// Converter is immutable afterwards.
type Converter struct {
	engine engine.Engine
	cfg    Config
	log    *slog.Logger
}

// New builds a Converter around the given engine. A nil logger disables
// diagnostics.
func New(eng engine.Engine, cfg Config, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{engine: eng, cfg: cfg, log: log}
}

// ConversionError wraps an engine or write failure for a specific input
// file.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// OutputPath returns the path the Markdown for input must be written to.
// An explicit path wins verbatim; otherwise the input's extension is
// replaced with ".md".
func OutputPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".md"
}

// ConvertFile converts one document. The input must exist; output may be
// empty to derive the destination from the input path. On success the
// result carries the resolved output path. A failed conversion performs no
// cleanup: the output file is either absent or left over from an earlier
// run.
func (c *Converter) ConvertFile(input, output string) (types.ConversionResult, error) {
	result := types.ConversionResult{InputPath: input}

	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("input file %s does not exist: %w", input, err)
		} else {
			err = fmt.Errorf("checking input %s: %w", input, err)
		}
		result.Status = types.ConversionFailed
		result.Message = err.Error()
		return result, err
	}

	out := OutputPath(input, output)
	result.OutputPath = out

	if c.cfg.SkipExisting {
		if _, err := os.Stat(out); err == nil {
			c.log.Debug("output exists, skipping", "input", input, "output", out)
			result.Status = types.ConversionSkipped
			return result, nil
		}
	}

	c.log.Info("converting document", "input", input, "output", out)

	doc, err := c.engine.Convert(input)
	if err != nil {
		return c.fail(result, err)
	}
	for _, w := range doc.Warnings {
		c.log.Debug("engine warning", "input", input, "warning", w)
	}

	text := doc.ExportMarkdown()
	if c.cfg.Frontmatter {
		header, err := renderFrontmatter(doc)
		if err != nil {
			return c.fail(result, err)
		}
		text = header + text
	}

	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return c.fail(result, err)
	}

	c.log.Info("conversion complete", "output", out)
	result.Status = types.ConversionDone
	return result, nil
}

func (c *Converter) fail(result types.ConversionResult, cause error) (types.ConversionResult, error) {
	err := &ConversionError{Path: result.InputPath, Err: cause}
	result.Status = types.ConversionFailed
	result.Message = err.Error()
	return result, err
}

// frontmatter is the YAML metadata block written ahead of the Markdown body.
type frontmatter struct {
	Source      string    `yaml:"source"`
	Format      string    `yaml:"format"`
	Title       string    `yaml:"title,omitempty"`
	ConvertedAt time.Time `yaml:"converted_at"`
}

func renderFrontmatter(doc *engine.Document) (string, error) {
	fm := frontmatter{
		Source:      doc.SourcePath,
		Format:      doc.Format,
		Title:       doc.Title,
		ConvertedAt: time.Now().UTC(),
	}
	body, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshalling frontmatter: %w", err)
	}
	return "---\n" + string(body) + "---\n\n", nil
}
