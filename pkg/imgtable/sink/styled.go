package sink

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/table"
	"github.com/xuri/excelize/v2"
)

// DefaultPadding is added to the longest cell of a column.
const DefaultPadding = 2

// MaxColumnWidth is the largest column width a worksheet accepts.
const MaxColumnWidth = excelize.MaxColumnWidth

// Styled writes the grid with wrapped text, columns sized to their longest
// cell, and the table range registered as the sheet's print area.
type Styled struct {
	SheetName string
	Padding   int
}

// Write implements Writer.
func (s Styled) Write(grid models.Grid, path string) error {
	if grid.IsEmpty() {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet, err := prepareSheet(f, s.SheetName)
	if err != nil {
		return err
	}
	if err := writeRows(f, sheet, grid); err != nil {
		return err
	}
	if err := s.applyFormatting(f, sheet, grid); err != nil {
		return fmt.Errorf("%w: %v", ErrStyleUnavailable, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (s Styled) applyFormatting(f *excelize.File, sheet string, grid models.Grid) error {
	width := grid.Width()
	if width == 0 {
		return nil
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("create wrap style: %w", err)
	}

	for colIdx, w := range ColumnWidths(grid, s.Padding) {
		col, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
		if err := f.SetColStyle(sheet, col, wrap); err != nil {
			return fmt.Errorf("set style of column %s: %w", col, err)
		}
	}

	endCell, err := excelize.CoordinatesToCellName(width, len(grid))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", endCell, wrap); err != nil {
		return fmt.Errorf("apply wrap style: %w", err)
	}

	rng, err := table.Range(grid)
	if err != nil {
		return err
	}
	return setPrintArea(f, sheet, rng)
}

// ColumnWidths returns one width per column: the display width of the
// column's longest line plus padding, capped at MaxColumnWidth.
func ColumnWidths(grid models.Grid, padding int) []float64 {
	widths := make([]float64, grid.Width())
	for _, row := range grid {
		for colIdx, cell := range row {
			if w := float64(cellWidth(cell)); w > widths[colIdx] {
				widths[colIdx] = w
			}
		}
	}
	for i := range widths {
		widths[i] += float64(padding)
		if widths[i] > MaxColumnWidth {
			widths[i] = MaxColumnWidth
		}
	}
	return widths
}

// cellWidth is the display width of the longest line in a cell.
func cellWidth(cell string) int {
	longest := 0
	for _, line := range strings.Split(cell, "\n") {
		if w := runewidth.StringWidth(line); w > longest {
			longest = w
		}
	}
	return longest
}

// setPrintArea registers rng (e.g. "A1:C3") as the sheet's print area.
func setPrintArea(f *excelize.File, sheet, rng string) error {
	if rng == "" {
		return nil
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid range %q", rng)
	}
	ref := fmt.Sprintf("'%s'!%s:%s", sheet, absoluteCell(parts[0]), absoluteCell(parts[1]))
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: ref,
		Scope:    sheet,
	})
}

// absoluteCell turns "C3" into "$C$3".
func absoluteCell(cell string) string {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return cell
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return cell
	}
	return fmt.Sprintf("$%s$%d", name, row)
}
