// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"strings"

	"github.com/tsawler/tabula/ocr"
	"github.com/tsawler/tabula/reader"
)

// recognizePages runs OCR over the images of every page in an open PDF and
// joins the recognized text into a Markdown string, one page per section.
// Requires the tabula "ocr" build tag and a system Tesseract install;
// without them ocr.New reports the failure and the conversion errors out.
func (t *Tabula) recognizePages(r *reader.Reader) (string, error) {
	client, err := ocr.New()
	if err != nil {
		return "", fmt.Errorf("initializing OCR engine: %w", err)
	}
	defer client.Close()

	count, err := r.PageCount()
	if err != nil {
		return "", fmt.Errorf("counting pages: %w", err)
	}

	var b strings.Builder
	for i := 0; i < count; i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}

		images, err := r.ExtractPageImages(page)
		if err != nil {
			return "", fmt.Errorf("page %d images: %w", i+1, err)
		}

		for _, img := range images {
			png, err := img.ToPNG()
			if err != nil {
				return "", fmt.Errorf("page %d: encoding image: %w", i+1, err)
			}
			text, err := client.RecognizeImage(png)
			if err != nil {
				return "", fmt.Errorf("page %d: %w", i+1, err)
			}
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(text)
		}
	}

	return b.String(), nil
}
