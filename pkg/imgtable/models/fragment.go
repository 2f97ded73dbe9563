// Package models defines data structures for image table extraction.
package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate indicates a fragment or box carries a NaN or infinite coordinate.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a position in source image pixels (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is the bounding quadrilateral of an OCR detection, corners in engine order.
type Quad [4]Point

// Top returns the smallest y of the four corners (the topmost edge).
func (q Quad) Top() float64 {
	top := q[0].Y
	for _, p := range q[1:] {
		top = math.Min(top, p.Y)
	}
	return top
}

// Left returns the smallest x of the four corners.
func (q Quad) Left() float64 {
	left := q[0].X
	for _, p := range q[1:] {
		left = math.Min(left, p.X)
	}
	return left
}

// Validate reports whether every corner has finite coordinates.
func (q Quad) Validate() error {
	for i, p := range q {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: corner %d is (%v, %v)", ErrInvalidCoordinate, i, p.X, p.Y)
		}
	}
	return nil
}

// Detection is one raw OCR result: box, recognized text and engine confidence.
type Detection struct {
	// Box is the bounding quadrilateral.
	Box Quad `json:"box"`
	// Text is the recognized text.
	Text string `json:"text"`
	// Confidence is the engine's score; its scale depends on the engine.
	Confidence float64 `json:"confidence"`
}

// TextFragment is the positioned text the table reconstructor works on.
type TextFragment struct {
	// Text is the recognized text.
	Text string `json:"text"`
	// TopY is the topmost y of the source box.
	TopY float64 `json:"top_y"`
	// LeftX is the leftmost x of the source box.
	LeftX float64 `json:"left_x"`
}

// NewTextFragment derives a fragment from a detection.
func NewTextFragment(d Detection) (TextFragment, error) {
	if err := d.Box.Validate(); err != nil {
		return TextFragment{}, fmt.Errorf("detection %q: %w", d.Text, err)
	}
	return TextFragment{
		Text:  d.Text,
		TopY:  d.Box.Top(),
		LeftX: d.Box.Left(),
	}, nil
}

// Validate reports whether the fragment's coordinates are usable.
func (f TextFragment) Validate() error {
	if !finite(f.TopY) {
		return fmt.Errorf("%w: top_y is %v", ErrInvalidCoordinate, f.TopY)
	}
	if !finite(f.LeftX) {
		return fmt.Errorf("%w: left_x is %v", ErrInvalidCoordinate, f.LeftX)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
