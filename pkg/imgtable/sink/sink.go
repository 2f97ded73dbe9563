// Package sink persists grids as spreadsheet files.
package sink

import (
	"errors"
	"fmt"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DefaultSheetName is the name of the single sheet written.
const DefaultSheetName = "Sheet1"

// ErrNoData indicates an empty grid; nothing is written.
var ErrNoData = errors.New("no data to save")

// ErrStyleUnavailable indicates the formatting features of the writer failed.
var ErrStyleUnavailable = errors.New("spreadsheet formatting unavailable")

// Writer persists a grid whose row 0 holds the column headers.
type Writer interface {
	Write(grid models.Grid, path string) error
}

// Plain writes cell values only: no widths, wrapping or print area.
type Plain struct {
	SheetName string
}

// Write implements Writer.
func (p Plain) Write(grid models.Grid, path string) error {
	if grid.IsEmpty() {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet, err := prepareSheet(f, p.SheetName)
	if err != nil {
		return err
	}
	if err := writeRows(f, sheet, grid); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Fallback tries Primary and, if it fails, Secondary.
type Fallback struct {
	Primary   Writer
	Secondary Writer
	Logger    *zap.Logger
}

// NewFallback returns the styled writer backed by the plain writer.
func NewFallback(logger *zap.Logger) *Fallback {
	return &Fallback{
		Primary:   Styled{SheetName: DefaultSheetName, Padding: DefaultPadding},
		Secondary: Plain{SheetName: DefaultSheetName},
		Logger:    logger,
	}
}

// Write implements Writer.
func (fb *Fallback) Write(grid models.Grid, path string) error {
	_, err := fb.Save(grid, path)
	return err
}

// Save writes grid and reports which writer succeeded.
// It fails only when both writers fail.
func (fb *Fallback) Save(grid models.Grid, path string) (models.SinkMode, error) {
	if grid.IsEmpty() {
		return models.SinkNone, ErrNoData
	}
	logger := fb.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	primaryErr := fb.Primary.Write(grid, path)
	if primaryErr == nil {
		return models.SinkStyled, nil
	}
	logger.Warn("Formatted write failed, falling back to plain writer",
		zap.String("path", path),
		zap.Error(primaryErr))

	if fb.Secondary == nil {
		return models.SinkNone, primaryErr
	}
	if err := fb.Secondary.Write(grid, path); err != nil {
		return models.SinkNone, errors.Join(primaryErr, err)
	}
	return models.SinkPlain, nil
}

// prepareSheet renames the default sheet when a different name is requested.
func prepareSheet(f *excelize.File, name string) (string, error) {
	if name == "" || name == DefaultSheetName {
		return DefaultSheetName, nil
	}
	if err := f.SetSheetName(DefaultSheetName, name); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	return name, nil
}

// writeRows writes every row starting at A1. Short rows leave trailing cells blank.
func writeRows(f *excelize.File, sheet string, grid models.Grid) error {
	for rowIdx, row := range grid {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx+1, err)
		}
	}
	return nil
}
