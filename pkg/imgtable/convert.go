package imgtable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/ocr"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/refine"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/sink"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/table"
	"go.uber.org/zap"
)

// modeSaver is a writer that reports which persistence path it used.
type modeSaver interface {
	Save(grid models.Grid, path string) (models.SinkMode, error)
}

// Convert runs the whole pipeline on one image: extraction, reconstruction,
// refinement and persistence. Refinement failures are not fatal; they are
// logged and returned in Result.RefineError. Nothing is written when an
// earlier stage fails.
func Convert(ctx context.Context, imagePath string, opts Options) (*models.Result, error) {
	logger := opts.logger().With(zap.String("image", imagePath))
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	result := &models.Result{ImagePath: imagePath, Mode: models.SinkNone}

	fmt.Fprintln(progress, "Starting OCR processing...")
	fragments, err := extract(ctx, imagePath, opts, logger, result)
	if err != nil {
		return nil, err
	}

	raw, err := table.Reconstruct(fragments, opts.Params)
	if err != nil {
		return nil, NewStageError(StageReconstruction, err)
	}
	result.RawGrid = raw
	result.Density = table.Density(raw)
	logger.Info("Reconstructed grid",
		zap.Int("fragments", len(fragments)),
		zap.Int("rows", len(raw)),
		zap.Int("columns", raw.Width()),
		zap.Float64("density", result.Density))
	if result.Density < table.SparseDensity {
		logger.Warn("Reconstructed grid is sparse; rows may be split, consider a larger row threshold",
			zap.Float64("density", result.Density),
			zap.Float64("threshold", opts.Params.RowThreshold))
	}
	fmt.Fprintln(progress, "OCR extraction completed")

	fmt.Fprintln(progress, "Starting AI refinement...")
	grid := refineGrid(ctx, raw, opts, logger, result)
	fmt.Fprintln(progress, "AI refinement completed")

	result.Grid = grid
	result.Rows = len(grid)
	result.Columns = grid.Width()

	if opts.JSONPath != "" {
		if err := sink.SaveJSON(opts.JSONPath, grid, opts.Pretty); err != nil {
			return nil, NewStageError(StagePersistence, fmt.Errorf("write JSON: %w", err))
		}
	}

	if err := persist(grid, opts, logger, result); err != nil {
		if errors.Is(err, sink.ErrNoData) {
			fmt.Fprintln(progress, "No data to save!")
			return result, nil
		}
		return nil, err
	}
	if result.Mode == models.SinkPlain {
		fmt.Fprintf(progress, "Successfully saved to %s (without column widths or text wrap)\n", result.OutputPath)
	} else {
		fmt.Fprintf(progress, "Successfully saved to %s\n", result.OutputPath)
	}
	return result, nil
}

// extract runs the extractor and converts detections into fragments.
func extract(ctx context.Context, imagePath string, opts Options, logger *zap.Logger, result *models.Result) ([]models.TextFragment, error) {
	if opts.Extractor == nil {
		return nil, NewStageError(StageExtraction, errors.New("no extractor configured"))
	}
	if !opts.SkipImageCheck {
		info, err := ocr.CheckImage(imagePath)
		if err != nil {
			return nil, NewStageError(StageExtraction, err)
		}
		logger.Debug("Image accepted",
			zap.String("format", info.Format),
			zap.Int("width", info.Width),
			zap.Int("height", info.Height))
	}

	detections, err := opts.Extractor.Extract(ctx, imagePath)
	if err != nil {
		if errors.Is(err, ocr.ErrMalformedDetection) {
			return nil, NewStageError(StageReconstruction, err)
		}
		return nil, NewStageError(StageExtraction, err)
	}
	result.Detections = len(detections)

	fragments, err := ocr.Fragments(detections)
	if err != nil {
		return nil, NewStageError(StageReconstruction, err)
	}
	if len(fragments) == 0 {
		return nil, NewStageError(StageExtraction, ocr.ErrNoText)
	}
	logger.Debug("Extracted fragments", zap.Int("detections", len(detections)), zap.Int("fragments", len(fragments)))
	return fragments, nil
}

// refineGrid applies the refiner, falling back to raw on any failure.
func refineGrid(ctx context.Context, raw models.Grid, opts Options, logger *zap.Logger, result *models.Result) models.Grid {
	if opts.Refiner == nil {
		return raw
	}

	refineCtx := ctx
	if opts.RefineTimeout > 0 {
		var cancel context.CancelFunc
		refineCtx, cancel = context.WithTimeout(ctx, opts.RefineTimeout)
		defer cancel()
	}

	grid, err := refine.WithFallback(refineCtx, opts.Refiner, raw)
	if err != nil {
		result.RefineError = NewStageError(StageRefinement, err)
		logger.Warn("Refinement failed, keeping reconstructed grid", zap.Error(err))
		return grid
	}
	result.Refined = true
	return grid
}

// persist writes the grid and records where and how.
func persist(grid models.Grid, opts Options, logger *zap.Logger, result *models.Result) error {
	if grid.IsEmpty() {
		logger.Warn("Grid is empty, nothing to save")
		return sink.ErrNoData
	}

	path := opts.outputPath()
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	mode := models.SinkCustom
	w := opts.writer()
	if s, ok := w.(modeSaver); ok {
		mode, err = s.Save(grid, path)
	} else {
		err = w.Write(grid, path)
	}
	if err != nil {
		if errors.Is(err, sink.ErrNoData) {
			return err
		}
		return NewStageError(StagePersistence, err)
	}

	rng, err := table.Range(grid)
	if err != nil {
		return NewStageError(StagePersistence, err)
	}
	result.Mode = mode
	result.OutputPath = abs
	result.Range = rng
	logger.Info("Saved workbook",
		zap.String("path", abs),
		zap.String("mode", string(mode)),
		zap.String("range", rng))
	return nil
}
