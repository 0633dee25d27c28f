// Package formfill places answer text onto non-fillable PDF forms.
//
// The workflow has two stages. First a FieldAnalyzer (backed by a hosted
// vision-language model) is shown a rendered page image together with the
// available answers and proposes field candidates: a label, a suggested
// value and approximate pixel coordinates. Each candidate's label is then
// resolved against the answer set by MatchField, and the results populate
// a Session's ordered placement list, which can be corrected by hand,
// rendered to a preview image and finally burned into a copy of the PDF.
//
// Required Environment Variables (for the OpenAI-backed analyzer):
//   - OPENAI_API_KEY: API key for the model endpoint
//   - OPENAI_BASE_URL: Alternative OpenAI-compatible endpoint (optional)
//   - FORMFILL_MODEL: Model name (optional, defaults to gpt-4o)
package formfill

import (
	"context"
	"image"
	"time"

	"formfill/internal/answers"
)

// Default placement geometry, in page pixels at the analysis DPI.
const (
	DefaultWidth    = 200
	DefaultHeight   = 25
	DefaultFontSize = 12
)

// Placement is one piece of text to draw on the page.
type Placement struct {
	// FieldName is the display label of the form field. May be empty and
	// need not be unique.
	FieldName string

	// Text is the resolved value that will be drawn.
	Text string

	// X, Y anchor the top-left corner of the bounding box, in page
	// pixel coordinates.
	X int
	Y int

	// Width and Height size the bounding box.
	Width  int
	Height int

	// FontSize is the draw size in points.
	FontSize int

	// Confidence is the model-reported certainty in [0,1]. Manually
	// added placements carry 1.0.
	Confidence float64
}

// FieldCandidate is one form field proposed by the analyzer, before the
// suggested value has been matched against the answer set.
type FieldCandidate struct {
	FieldName     string
	SuggestedData string
	X             int
	Y             int
	Width         int
	Height        int
	Confidence    float64
}

// FieldAnalyzer identifies fillable fields on a rendered form page.
//
// Implementations must treat the page image and answer set as read-only.
// A nil error with zero candidates is a valid outcome and means the page
// had no recognizable fields.
type FieldAnalyzer interface {
	AnalyzeForm(ctx context.Context, page image.Image, set *answers.AnswerSet) ([]FieldCandidate, error)
}

// AnalyzerConfig holds settings for the model-backed analyzer.
type AnalyzerConfig struct {
	// Model is the vision-capable model name.
	Model string

	// MaxTokens caps the model reply length.
	MaxTokens int

	// Timeout is the maximum time to wait for the model call.
	// Default: 120 seconds.
	Timeout time.Duration
}

// DefaultAnalyzerConfig returns an AnalyzerConfig with sensible defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Model:     "gpt-4o",
		MaxTokens: 2000,
		Timeout:   120 * time.Second,
	}
}
