package refine

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// ParseResponse extracts a grid from a model answer. Markdown code fences are
// removed; cells may be strings, numbers, booleans or null and are all
// returned as text, numbers exactly as written.
func ParseResponse(text string) (models.Grid, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrMalformedResponse)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	grid := make(models.Grid, 0, len(rows))
	for r, rawRow := range rows {
		if rawRow = bytes.TrimSpace(rawRow); bytes.Equal(rawRow, []byte("null")) {
			return nil, fmt.Errorf("%w: row %d is null", ErrMalformedResponse, r)
		}
		var cells []json.RawMessage
		if err := json.Unmarshal(rawRow, &cells); err != nil {
			return nil, fmt.Errorf("%w: row %d is not an array: %v", ErrMalformedResponse, r, err)
		}
		row := make([]string, 0, len(cells))
		for c, raw := range cells {
			s, err := cellString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedResponse, r, c, err)
			}
			row = append(row, s)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// cellString renders one JSON scalar as cell text.
func cellString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("empty value")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		if b {
			return "true", nil
		}
		return "false", nil
	case '[', '{':
		return "", fmt.Errorf("nested value %s", raw)
	default:
		if _, err := strconv.ParseFloat(string(raw), 64); err != nil {
			return "", fmt.Errorf("invalid number %s", raw)
		}
		return string(raw), nil
	}
}
