package sink

import (
	"strings"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads a sheet back into a grid. Trailing blank cells of each row are
// dropped, as the worksheet does not record them.
func ReadGrid(path, sheet string) (models.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return models.Grid(rows), nil
}

// PrintArea returns the print area of a sheet as a plain range such as "A1:C3",
// or "" when none is defined.
func PrintArea(path, sheet string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		refSheet, rng := parsePrintAreaReference(dn.RefersTo)
		if refSheet == sheet {
			return rng, nil
		}
	}
	return "", nil
}

// parsePrintAreaReference parses 'SheetName'!$A$1:$D$10 (quotes optional).
func parsePrintAreaReference(ref string) (string, string) {
	idx := strings.LastIndex(ref, "!")
	if idx < 0 {
		return "", ""
	}
	sheet := strings.Trim(ref[:idx], "'")
	rng := strings.ReplaceAll(ref[idx+1:], "$", "")
	return sheet, rng
}
