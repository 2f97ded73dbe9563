package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// ErrMalformedDetection indicates a detection without text or with an incomplete box.
var ErrMalformedDetection = errors.New("malformed detection")

// JSONFile reads detections exported by another OCR engine.
//
// The file holds an array of objects:
//
//	[{"box": [[x1,y1],[x2,y2],[x3,y3],[x4,y4]], "text": "Name", "confidence": 0.98}]
//
// The image path passed to Extract is ignored.
type JSONFile struct {
	Path string
}

type jsonDetection struct {
	Box        [][]*float64 `json:"box"`
	Text       *string      `json:"text"`
	Confidence float64      `json:"confidence"`
}

// Extract implements Extractor.
func (j JSONFile) Extract(ctx context.Context, imagePath string) ([]models.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, fmt.Errorf("read detections: %w", err)
	}
	return ParseDetections(data)
}

// ParseDetections decodes the JSONFile format.
func ParseDetections(data []byte) ([]models.Detection, error) {
	var raw []jsonDetection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}

	detections := make([]models.Detection, 0, len(raw))
	for i, r := range raw {
		if r.Text == nil {
			return nil, fmt.Errorf("%w %d: missing text", ErrMalformedDetection, i)
		}
		if len(r.Box) != 4 {
			return nil, fmt.Errorf("%w %d: box has %d corners, expected 4", ErrMalformedDetection, i, len(r.Box))
		}
		var q models.Quad
		for c, corner := range r.Box {
			if len(corner) != 2 {
				return nil, fmt.Errorf("%w %d: corner %d has %d coordinates, expected 2", ErrMalformedDetection, i, c, len(corner))
			}
			if corner[0] == nil || corner[1] == nil {
				return nil, fmt.Errorf("%w %d: corner %d: missing coordinate", ErrMalformedDetection, i, c)
			}
			q[c] = models.Point{X: *corner[0], Y: *corner[1]}
		}
		detections = append(detections, models.Detection{Box: q, Text: *r.Text, Confidence: r.Confidence})
	}
	return detections, nil
}
