package table

import (
	"testing"

	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

func TestFindBounds(t *testing.T) {
	tests := []struct {
		name     string
		grid     models.Grid
		expected Bounds
		ok       bool
	}{
		{"empty", nil, Bounds{}, false},
		{"all blank", models.Grid{{"", ""}, {""}}, Bounds{}, false},
		{"empty rows", models.Grid{{}, {}}, Bounds{}, false},
		{"full", models.Grid{{"a", "b"}, {"c", "d"}}, Bounds{0, 1, 0, 1}, true},
		{"inner", models.Grid{{"", "", ""}, {"", "x", ""}, {"", "", "y"}}, Bounds{1, 2, 1, 2}, true},
		{"blank row inside", models.Grid{{"", "a"}, {""}, {"b", ""}}, Bounds{0, 2, 0, 1}, true},
	}

	for _, tt := range tests {
		b, ok := FindBounds(tt.grid)
		if ok != tt.ok || b != tt.expected {
			t.Errorf("%s: FindBounds() = %+v, %v, expected %+v, %v", tt.name, b, ok, tt.expected, tt.ok)
		}
	}
}

func TestDensity(t *testing.T) {
	grid := models.Grid{{"H1", "H2", "H3"}, {"a", "b"}}
	if got := Density(grid); got != 5.0/6.0 {
		t.Errorf("Density() = %v, expected %v", got, 5.0/6.0)
	}
	if got := Density(models.Grid{{"a", "b", "c", "d"}, {"e"}, {"f"}, {"g"}}); got != 7.0/16.0 {
		t.Errorf("Density() = %v, expected %v", got, 7.0/16.0)
	}
	if got := Density(nil); got != 0 {
		t.Errorf("Density(nil) = %v, expected 0", got)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		grid     models.Grid
		expected string
	}{
		{nil, ""},
		{models.Grid{{}}, ""},
		{models.Grid{{"a"}}, "A1:A1"},
		{models.Grid{{"H1", "H2", "H3"}, {"a", "b"}}, "A1:C2"},
		{models.Grid{{"a"}, {"b"}, {"c", "d", "e", "f"}}, "A1:D3"},
	}

	for _, tt := range tests {
		got, err := Range(tt.grid)
		if err != nil {
			t.Fatalf("Range(%v) failed: %v", tt.grid, err)
		}
		if got != tt.expected {
			t.Errorf("Range(%v) = %q, expected %q", tt.grid, got, tt.expected)
		}
	}
}
