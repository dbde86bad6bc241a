// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one document to Markdown.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// ConversionRequest describes a single conversion invocation. It is built
// per call and never persisted.
type ConversionRequest struct {
	// InputPath is the document to convert.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the explicit destination, or empty to derive the
	// destination from InputPath.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// UseOCR enables optical character recognition for scanned pages.
	UseOCR bool `json:"use_ocr" yaml:"use_ocr"`
}

// ConversionResult records the outcome of one conversion attempt.
type ConversionResult struct {
	// InputPath is the document that was processed.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is where the Markdown was written. Empty on failure.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Status is the terminal state of the attempt.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Message carries the failure description when Status is ConversionFailed.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Succeeded reports whether the attempt produced (or kept) a Markdown file.
func (r ConversionResult) Succeeded() bool {
	return r.Status != ConversionFailed
}
