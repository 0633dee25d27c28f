package formfill

import (
	"context"
	"image"

	"github.com/rs/zerolog"
	"formfill/internal/answers"
	"formfill/internal/logger"
)

// Session holds the state of one form filling run: the source document,
// its rasterized first page and the ordered list of text placements.
//
// Placements are addressed by their position in the list; indices shown
// to the operator are 1-based, indices passed to Session methods are
// 0-based. A session is not safe for concurrent use and is discarded at
// the end of the run.
type Session struct {
	sourcePath string
	page       image.Image
	placements []Placement
	log        zerolog.Logger
}

// NewSession opens the source PDF, renders its first page at the given
// DPI and returns a session bound to it.
func NewSession(sourcePath string, dpi int) (*Session, error) {
	page, err := RasterizePage(sourcePath, dpi)
	if err != nil {
		return nil, err
	}
	return NewImageSession(page, sourcePath), nil
}

// NewImageSession returns a session bound to an already rendered page
// image. sourcePath may be empty, in which case WritePDF is unavailable.
func NewImageSession(page image.Image, sourcePath string) *Session {
	return &Session{
		sourcePath: sourcePath,
		page:       page,
		log:        logger.WithComponent("formfill-session"),
	}
}

// Analyze runs the field analyzer over the page, resolves every candidate
// against the answer set and replaces the session's placements with the
// result.
//
// Analyzer failures are logged and reported as zero placements; the
// caller decides whether an empty result ends the run.
func (s *Session) Analyze(ctx context.Context, analyzer FieldAnalyzer, set *answers.AnswerSet) []Placement {
	candidates, err := analyzer.AnalyzeForm(ctx, s.page, set)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("source", s.sourcePath).
			Msg("Form analysis failed")
		s.placements = nil
		return nil
	}

	placements := make([]Placement, 0, len(candidates))
	for _, c := range candidates {
		placements = append(placements, Placement{
			FieldName:  c.FieldName,
			Text:       MatchField(c.FieldName, set, c.SuggestedData),
			X:          c.X,
			Y:          c.Y,
			Width:      c.Width,
			Height:     c.Height,
			FontSize:   DefaultFontSize,
			Confidence: c.Confidence,
		})
	}

	s.placements = placements
	s.log.Info().
		Int("placements", len(placements)).
		Str("source", s.sourcePath).
		Msg("Form analysis completed")
	return placements
}

// Placements returns the current placement list in display order.
func (s *Session) Placements() []Placement {
	return s.placements
}

// Add appends a manual placement with default geometry and full
// confidence.
func (s *Session) Add(fieldName, text string, x, y int) Placement {
	p := Placement{
		FieldName:  fieldName,
		Text:       text,
		X:          x,
		Y:          y,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FontSize:   DefaultFontSize,
		Confidence: 1.0, // manual placements are trusted fully
	}
	s.placements = append(s.placements, p)
	s.log.Info().
		Str("field", fieldName).
		Int("x", x).
		Int("y", y).
		Msg("Added placement")
	return p
}

// Adjustment carries the placement fields to overwrite; nil fields are
// left untouched.
type Adjustment struct {
	X      *int
	Y      *int
	Width  *int
	Height *int
}

// Adjust overwrites the supplied fields of the placement at index.
// An out-of-range index is a no-op; the return value reports whether a
// placement was changed.
func (s *Session) Adjust(index int, adj Adjustment) bool {
	if index < 0 || index >= len(s.placements) {
		return false
	}
	p := &s.placements[index]
	if adj.X != nil {
		p.X = *adj.X
	}
	if adj.Y != nil {
		p.Y = *adj.Y
	}
	if adj.Width != nil {
		p.Width = *adj.Width
	}
	if adj.Height != nil {
		p.Height = *adj.Height
	}
	s.log.Info().
		Int("index", index).
		Str("field", p.FieldName).
		Msg("Adjusted placement")
	return true
}

// Remove deletes the placement at index and returns it. An out-of-range
// index is a no-op and returns false.
func (s *Session) Remove(index int) (Placement, bool) {
	if index < 0 || index >= len(s.placements) {
		return Placement{}, false
	}
	removed := s.placements[index]
	s.placements = append(s.placements[:index], s.placements[index+1:]...)
	s.log.Info().
		Str("field", removed.FieldName).
		Msg("Removed placement")
	return removed, true
}

// RenderPreview renders the placement overlay onto a copy of the page.
func (s *Session) RenderPreview(showLabels bool) image.Image {
	return RenderPreview(s.page, s.placements, showLabels)
}

// SavePreview renders the overlay and writes it to path as PNG.
func (s *Session) SavePreview(path string, showLabels bool) error {
	if err := SavePreview(path, s.page, s.placements, showLabels); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("Preview saved")
	return nil
}

// WritePDF burns the placements into a copy of the source document and
// returns the output path.
func (s *Session) WritePDF(outPath string) (string, error) {
	const op = "WritePDF"
	if s.sourcePath == "" {
		return "", NewFillError(op, ErrNoDocument, "")
	}
	if len(s.placements) == 0 {
		return "", NewFillError(op, ErrNoPlacements, "")
	}
	result, err := WritePDF(s.sourcePath, s.placements, outPath)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("path", result).Msg("Filled PDF saved")
	return result, nil
}
