// Package ocr turns an image into positioned text detections.
//
// The Tesseract engine wraps gosseract and is only compiled with the "ocr"
// build tag, since it needs the Tesseract C library:
//
//	go build -tags ocr ./...
//
// Without the tag, Tesseract.Extract returns ErrOCRNotEnabled. Detections
// produced by another engine can be fed in through JSONFile.
package ocr

import (
	"context"
	"errors"
	"strings"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"golang.org/x/text/unicode/norm"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrNoText indicates the engine found no text in the image.
var ErrNoText = errors.New("no text detected")

// Extractor produces unordered detections from an image file.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) ([]models.Detection, error)
}

// Static returns a fixed set of detections regardless of the image.
type Static []models.Detection

// Extract implements Extractor.
func (s Static) Extract(ctx context.Context, imagePath string) ([]models.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]models.Detection(nil), s...), nil
}

// Fragments converts detections into fragments for table reconstruction.
// Text is NFC-normalized and trimmed; detections left with no text are dropped.
func Fragments(detections []models.Detection) ([]models.TextFragment, error) {
	fragments := make([]models.TextFragment, 0, len(detections))
	for _, d := range detections {
		d.Text = normalizeText(d.Text)
		if d.Text == "" {
			continue
		}
		f, err := models.NewTextFragment(d)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
