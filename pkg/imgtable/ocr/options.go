package ocr

// Level selects the granularity of the boxes returned by the engine.
type Level string

const (
	// LevelLine returns one box per text line segment, which usually maps to a cell.
	LevelLine Level = "line"
	// LevelWord returns one box per word.
	LevelWord Level = "word"
)

// PageSegMode mirrors Tesseract's page segmentation modes.
type PageSegMode int

// Page segmentation modes used by the extractor.
const (
	PSMAuto        PageSegMode = 3  // Fully automatic
	PSMSingleBlock PageSegMode = 6  // Single uniform block of text
	PSMSparseText  PageSegMode = 11 // Find as much text as possible in no particular order
)

// Options configures the Tesseract engine.
type Options struct {
	// Languages are Tesseract language codes, e.g. "eng", "fra".
	Languages []string
	// Level is the detection granularity.
	Level Level
	// PageSegMode is the page segmentation mode.
	PageSegMode PageSegMode
	// MinConfidence drops detections scored below it (0-100).
	MinConfidence float64
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	return Options{
		Languages:   []string{"eng"},
		Level:       LevelLine,
		PageSegMode: PSMSparseText,
	}
}

func (o Options) languages() []string {
	if len(o.Languages) == 0 {
		return []string{"eng"}
	}
	return o.Languages
}
