package models

// Grid is a reconstructed table: rows top to bottom, cells left to right.
// Row 0 is treated as the header row. Rows may differ in length.
type Grid [][]string

// IsEmpty reports whether the grid has no rows.
func (g Grid) IsEmpty() bool {
	return len(g) == 0
}

// Headers returns row 0, or nil for an empty grid.
func (g Grid) Headers() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Body returns rows 1..n.
func (g Grid) Body() Grid {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// Width returns the length of the longest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the value at (r, c), or "" when the position is outside the row.
func (g Grid) Cell(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Equal reports whether both grids have the same rows and cells.
// A nil grid equals an empty one.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(other[i]) {
			return false
		}
		for j := range g[i] {
			if g[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
