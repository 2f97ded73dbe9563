package refine

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

const systemPrompt = "You are an expert data analyst that fixes OCR-extracted tables. Return only valid JSON."

const userPromptTemplate = `Analyze and refine this table data extracted from an image. 
Ensure:
1. The first row contains column headers.
2. Data types in each column are consistent.
3. Any split values that belong together (including formulas, special characters, etc.) are properly merged.
4. Return valid JSON format (an array of arrays).

Return ONLY the JSON with this structure:
[
  ["Header1", "Header2", ...],
  ["Value1", "Value2", ...],
  ...
]

Raw data:
%s`

// BuildPrompt renders the user prompt for grid.
func BuildPrompt(grid models.Grid) (string, error) {
	if grid == nil {
		grid = models.Grid{}
	}
	raw, err := json.MarshalIndent(grid, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode grid: %w", err)
	}
	return fmt.Sprintf(userPromptTemplate, raw), nil
}
