// Package table rebuilds row and column structure from positioned OCR text.
package table

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// DefaultRowThreshold is the largest vertical gap, in image pixels, between two
// consecutive fragments that still keeps them in the same row.
const DefaultRowThreshold = 20

// ErrInvalidFragment indicates a fragment violates the reconstructor's input contract.
var ErrInvalidFragment = errors.New("invalid fragment")

// ErrInvalidParams indicates unusable reconstruction parameters.
var ErrInvalidParams = errors.New("invalid reconstruction parameters")

// Params holds parameters for table reconstruction.
type Params struct {
	// RowThreshold is compared against the gap to the immediately preceding
	// fragment, not to the first fragment of the row.
	RowThreshold float64
}

// DefaultParams returns default reconstruction parameters.
func DefaultParams() Params {
	return Params{
		RowThreshold: DefaultRowThreshold,
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if math.IsNaN(p.RowThreshold) || math.IsInf(p.RowThreshold, 0) || p.RowThreshold < 0 {
		return fmt.Errorf("%w: row threshold %v", ErrInvalidParams, p.RowThreshold)
	}
	return nil
}

// Reconstruct groups fragments into rows and orders each row left to right.
// The input slice is not modified. An empty input yields an empty grid.
func Reconstruct(fragments []models.TextFragment, params Params) (models.Grid, error) {
	rows, err := ClusterRows(fragments, params)
	if err != nil {
		return nil, err
	}

	grid := make(models.Grid, 0, len(rows))
	for _, row := range rows {
		grid = append(grid, orderColumns(row))
	}
	return grid, nil
}

// ClusterRows returns the fragments grouped into rows, top to bottom, in
// reading order. Cells inside a row are not yet sorted by x.
func ClusterRows(fragments []models.TextFragment, params Params) ([][]models.TextFragment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for i, f := range fragments {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w at index %d (%q): %v", ErrInvalidFragment, i, f.Text, err)
		}
	}

	state := rowFold{threshold: params.RowThreshold}
	for _, f := range readingOrder(fragments) {
		state = state.step(f)
	}
	return state.finish(), nil
}

// readingOrder returns a sorted copy: top to bottom, then left to right.
// Ties keep input order.
func readingOrder(fragments []models.TextFragment) []models.TextFragment {
	sorted := append([]models.TextFragment(nil), fragments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TopY != sorted[j].TopY {
			return sorted[i].TopY < sorted[j].TopY
		}
		return sorted[i].LeftX < sorted[j].LeftX
	})
	return sorted
}

// rowFold is the accumulator threaded through the sorted fragments.
type rowFold struct {
	threshold float64
	rows      [][]models.TextFragment
	current   []models.TextFragment
	prevTopY  float64
	started   bool
}

// step consumes one fragment and returns the next state.
func (s rowFold) step(f models.TextFragment) rowFold {
	if !s.started || math.Abs(f.TopY-s.prevTopY) <= s.threshold {
		s.current = append(s.current, f)
	} else {
		s.rows = append(s.rows, s.current)
		s.current = []models.TextFragment{f}
	}
	s.prevTopY = f.TopY
	s.started = true
	return s
}

// finish closes the open row, if any, and returns all rows.
func (s rowFold) finish() [][]models.TextFragment {
	if len(s.current) > 0 {
		s.rows = append(s.rows, s.current)
	}
	return s.rows
}

// orderColumns sorts a row by x and keeps only the text.
func orderColumns(row []models.TextFragment) []string {
	sorted := append([]models.TextFragment(nil), row...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LeftX < sorted[j].LeftX
	})

	cells := make([]string, len(sorted))
	for i, f := range sorted {
		cells[i] = f.Text
	}
	return cells
}
