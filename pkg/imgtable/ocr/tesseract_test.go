//go:build ocr

package ocr

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

func TestTesseractExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.png")
	if err := os.WriteFile(path, createTestPNG(100, 50), 0644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}

	tess := NewTesseract(DefaultOptions(), nil)
	// The image is only a rectangle; the call must simply not fail.
	if _, err := tess.Extract(context.Background(), path); err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestQuadFromRect(t *testing.T) {
	q := quadFromRect(image.Rect(5, 10, 60, 30))
	expected := models.Quad{{X: 5, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 30}, {X: 5, Y: 30}}
	if q != expected {
		t.Errorf("quadFromRect() = %v, expected %v", q, expected)
	}
}
