package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// WriteJSON writes the grid as a JSON array of arrays.
func WriteJSON(w io.Writer, grid models.Grid, pretty bool) error {
	if grid == nil {
		grid = models.Grid{}
	}
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(grid, "", "  ")
	} else {
		data, err = json.Marshal(grid)
	}
	if err != nil {
		return fmt.Errorf("encode grid: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveJSON writes the grid as JSON to path.
func SaveJSON(path string, grid models.Grid, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, grid, pretty); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
