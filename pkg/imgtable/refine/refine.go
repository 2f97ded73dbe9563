// Package refine cleans up reconstructed grids, typically with a language model.
package refine

import (
	"context"
	"errors"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// ErrMalformedResponse indicates the model answered with something other than
// a JSON array of rows.
var ErrMalformedResponse = errors.New("malformed refinement response")

// ErrNoCredential indicates no API key was configured for the model.
var ErrNoCredential = errors.New("no API key configured for refinement")

// Refiner normalizes a grid. Implementations may change its shape.
type Refiner interface {
	Refine(ctx context.Context, grid models.Grid) (models.Grid, error)
}

// Identity returns the grid unchanged.
type Identity struct{}

// Refine implements Refiner.
func (Identity) Refine(ctx context.Context, grid models.Grid) (models.Grid, error) {
	return grid.Clone(), nil
}

// Unavailable stands in for a refiner that could not be built; every call fails with Err.
type Unavailable struct {
	Err error
}

// Refine implements Refiner.
func (u Unavailable) Refine(ctx context.Context, grid models.Grid) (models.Grid, error) {
	return nil, u.Err
}

// WithFallback runs r and returns its grid. On failure it returns the input
// grid unchanged together with the error, so callers can report and continue.
func WithFallback(ctx context.Context, r Refiner, grid models.Grid) (models.Grid, error) {
	if r == nil {
		return grid, nil
	}
	refined, err := r.Refine(ctx, grid)
	if err != nil {
		return grid, err
	}
	return refined, nil
}
