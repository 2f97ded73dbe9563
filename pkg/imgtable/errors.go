package imgtable

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step.
type Stage string

const (
	StageExtraction     Stage = "extraction"
	StageReconstruction Stage = "reconstruction"
	StageRefinement     Stage = "refinement"
	StagePersistence    Stage = "persistence"
)

// ErrExtraction indicates OCR could not produce text: engine unavailable,
// image unreadable, or nothing detected. Fatal.
var ErrExtraction = errors.New("extraction failed")

// ErrReconstruction indicates the extractor handed over malformed fragments. Fatal.
var ErrReconstruction = errors.New("reconstruction precondition violated")

// ErrRefinement indicates the refiner failed. The pipeline falls back to the
// unrefined grid and reports this error in the result.
var ErrRefinement = errors.New("refinement failed")

// ErrPersistence indicates the spreadsheet could not be written by any writer. Fatal.
var ErrPersistence = errors.New("persistence failed")

var stageErrors = map[Stage]error{
	StageExtraction:     ErrExtraction,
	StageReconstruction: ErrReconstruction,
	StageRefinement:     ErrRefinement,
	StagePersistence:    ErrPersistence,
}

// StageError represents an error raised by one pipeline stage.
// errors.Is matches both the stage sentinel and the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	if kind, ok := stageErrors[e.Stage]; ok {
		return []error{kind, e.Err}
	}
	return []error{e.Err}
}

// NewStageError creates a new StageError.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}
