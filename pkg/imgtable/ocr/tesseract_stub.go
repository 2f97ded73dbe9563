//go:build !ocr

package ocr

import (
	"context"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"go.uber.org/zap"
)

// Tesseract is a stub extractor that fails every call.
// Rebuild with -tags ocr for the real engine.
type Tesseract struct {
	opts Options
}

// NewTesseract returns the stub extractor.
func NewTesseract(opts Options, logger *zap.Logger) *Tesseract {
	return &Tesseract{opts: opts}
}

// Extract returns ErrOCRNotEnabled.
func (t *Tesseract) Extract(ctx context.Context, imagePath string) ([]models.Detection, error) {
	return nil, ErrOCRNotEnabled
}
