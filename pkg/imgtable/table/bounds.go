package table

import (
	"fmt"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/xuri/excelize/v2"
)

// Bounds is the smallest rectangle holding every non-blank cell.
// Indices are 0-based and inclusive.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// SparseDensity is the density below which a grid is likely misaligned:
// cells from one visual row split across several rows, or a shifted column.
const SparseDensity = 0.5

// FindBounds returns the bounds of the grid's text. ok is false when the grid
// holds no text at all, e.g. [[]] or [["", ""]].
func FindBounds(grid models.Grid) (b Bounds, ok bool) {
	for r, row := range grid {
		first, last, found := textSpan(row)
		if !found {
			continue
		}
		if !ok {
			b = Bounds{MinRow: r, MaxRow: r, MinCol: first, MaxCol: last}
			ok = true
			continue
		}
		b.MaxRow = r
		b.MinCol = min(b.MinCol, first)
		b.MaxCol = max(b.MaxCol, last)
	}
	return b, ok
}

// textSpan returns the first and last non-blank columns of a row.
func textSpan(row []string) (first, last int, found bool) {
	first = -1
	for c, cell := range row {
		if cell == "" {
			continue
		}
		if first < 0 {
			first = c
		}
		last = c
	}
	return first, last, first >= 0
}

// Density is the share of cells inside the bounds that hold text; 0 for a
// grid without text. Missing trailing cells of short rows count as blank.
func Density(grid models.Grid) float64 {
	b, ok := FindBounds(grid)
	if !ok {
		return 0
	}
	filled := 0
	for _, row := range grid[b.MinRow : b.MaxRow+1] {
		for c := b.MinCol; c <= b.MaxCol && c < len(row); c++ {
			if row[c] != "" {
				filled++
			}
		}
	}
	area := (b.MaxRow - b.MinRow + 1) * (b.MaxCol - b.MinCol + 1)
	return float64(filled) / float64(area)
}

// Range returns the spreadsheet range covering the whole grid starting at A1,
// e.g. "A1:C3". Blank trailing cells are included so ragged rows stay inside.
func Range(grid models.Grid) (string, error) {
	if grid.IsEmpty() || grid.Width() == 0 {
		return "", nil
	}
	startCell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(grid.Width(), len(grid))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}
