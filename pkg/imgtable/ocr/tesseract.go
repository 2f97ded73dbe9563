//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"go.uber.org/zap"
)

// Tesseract extracts detections with the Tesseract engine.
type Tesseract struct {
	opts          Options
	logger        *zap.Logger
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed extractor.
func NewTesseract(opts Options, logger *zap.Logger) *Tesseract {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{opts: opts, logger: logger, clientFactory: gosseract.NewClient}
}

// Extract implements Extractor.
func (t *Tesseract) Extract(ctx context.Context, imagePath string) ([]models.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.opts.languages()...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if t.opts.PageSegMode != 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(t.opts.PageSegMode)); err != nil {
			return nil, fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	level := gosseract.RIL_TEXTLINE
	if t.opts.Level == LevelWord {
		level = gosseract.RIL_WORD
	}
	boxes, err := c.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	detections := make([]models.Detection, 0, len(boxes))
	for _, b := range boxes {
		if b.Confidence < t.opts.MinConfidence {
			t.logger.Debug("Dropping low-confidence detection",
				zap.String("text", b.Word),
				zap.Float64("confidence", b.Confidence))
			continue
		}
		detections = append(detections, models.Detection{
			Box:        quadFromRect(b.Box),
			Text:       b.Word,
			Confidence: b.Confidence,
		})
	}

	t.logger.Debug("Tesseract finished",
		zap.String("image", imagePath),
		zap.Int("boxes", len(boxes)),
		zap.Int("kept", len(detections)))
	return detections, nil
}

func quadFromRect(r image.Rectangle) models.Quad {
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X), float64(r.Max.Y)
	return models.Quad{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
}
