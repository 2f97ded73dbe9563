package models

// SinkMode names the persistence path that produced the output file.
type SinkMode string

const (
	// SinkStyled means the workbook was written with column widths and wrapping.
	SinkStyled SinkMode = "styled"
	// SinkPlain means the reduced-fidelity writer was used.
	SinkPlain SinkMode = "plain"
	// SinkNone means nothing was written (empty grid).
	SinkNone SinkMode = "none"
	// SinkCustom means a caller-supplied writer that does not report its mode.
	SinkCustom SinkMode = "custom"
)

// Result represents the outcome of converting one image.
type Result struct {
	// ImagePath is the source image.
	ImagePath string `json:"image_path"`
	// OutputPath is the absolute path of the written workbook, empty when nothing was written.
	OutputPath string `json:"output_path,omitempty"`
	// Mode is the sink path used.
	Mode SinkMode `json:"mode"`
	// Detections is the number of OCR detections.
	Detections int `json:"detections"`
	// Rows is the number of rows in the final grid.
	Rows int `json:"rows"`
	// Columns is the length of the longest row in the final grid.
	Columns int `json:"columns"`
	// Range is the written data range (e.g. "A1:C3").
	Range string `json:"range,omitempty"`
	// Density is the share of filled cells in the reconstructed grid.
	Density float64 `json:"density"`
	// RawGrid is the grid produced by reconstruction.
	RawGrid Grid `json:"raw_grid"`
	// Grid is the grid handed to the sink.
	Grid Grid `json:"grid"`
	// Refined reports whether the refiner's output was used.
	Refined bool `json:"refined"`
	// RefineError is the refinement failure that triggered the fallback, if any.
	RefineError error `json:"-"`
}
