package ocr

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageUnreadable indicates the image file is missing or not a supported raster format.
var ErrImageUnreadable = errors.New("image unreadable")

// ImageInfo describes a validated input image.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// CheckImage verifies that path is a readable raster image by decoding its header.
func CheckImage(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %s: %v", ErrImageUnreadable, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w: %s has empty dimensions", ErrImageUnreadable, path)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
