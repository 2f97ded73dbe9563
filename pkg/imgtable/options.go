// Package imgtable converts a photographed or scanned table into a spreadsheet.
package imgtable

import (
	"io"
	"time"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/ocr"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/refine"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/sink"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/table"
	"go.uber.org/zap"
)

// DefaultOutputPath is the workbook written when no output path is given.
const DefaultOutputPath = "output_table.xlsx"

// Options configures a conversion.
type Options struct {
	// Extractor produces detections from the image.
	Extractor ocr.Extractor
	// SkipImageCheck disables decoding the image header before extraction.
	// Useful when detections come from a file rather than the image.
	SkipImageCheck bool
	// Params tunes table reconstruction.
	Params table.Params
	// Refiner cleans up the grid. Nil means no refinement.
	Refiner refine.Refiner
	// RefineTimeout bounds the refinement call. Zero means no deadline.
	RefineTimeout time.Duration
	// Writer persists the grid. Nil means the styled writer with plain fallback.
	Writer sink.Writer
	// OutputPath is the workbook path.
	OutputPath string
	// JSONPath, when set, also receives the final grid as JSON.
	JSONPath string
	// Pretty indents the JSON output.
	Pretty bool
	// Progress receives human-readable milestones. Nil discards them.
	Progress io.Writer
	// Logger receives structured logs. Nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns options using Tesseract, no refinement, and the
// default output path.
func DefaultOptions() Options {
	return Options{
		Extractor:  ocr.NewTesseract(ocr.DefaultOptions(), nil),
		Params:     table.DefaultParams(),
		Refiner:    refine.Identity{},
		OutputPath: DefaultOutputPath,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) outputPath() string {
	if o.OutputPath == "" {
		return DefaultOutputPath
	}
	return o.OutputPath
}

func (o Options) writer() sink.Writer {
	if o.Writer == nil {
		return sink.NewFallback(o.logger())
	}
	return o.Writer
}
