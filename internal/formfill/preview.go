package formfill

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Confidence tier colors for placement bounding boxes. Fills are
// translucent so the underlying form stays visible.
var (
	highConfidenceFill   = color.NRGBA{R: 0, G: 255, B: 0, A: 128}
	mediumConfidenceFill = color.NRGBA{R: 255, G: 255, B: 0, A: 128}
	lowConfidenceFill    = color.NRGBA{R: 255, G: 0, B: 0, A: 128}

	previewTextColor  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	previewLabelColor = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
)

const boxOutlineWidth = 2

// RenderPreview draws the placement overlay onto a copy of the base page
// image: a confidence-colored box and the resolved text for every
// placement, plus a numbered field label when showLabels is set.
//
// Placements draw in store order, so later boxes cover earlier ones where
// they overlap. The base image is never modified; rendering the same
// store twice produces pixel-identical output. A nil base yields a blank
// white page.
func RenderPreview(base image.Image, placements []Placement, showLabels bool) image.Image {
	if base == nil {
		blank := image.NewRGBA(image.Rect(0, 0, 800, 600))
		draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
		base = blank
	}

	preview := image.NewRGBA(base.Bounds())
	draw.Draw(preview, preview.Bounds(), base, base.Bounds().Min, draw.Src)

	if len(placements) == 0 {
		return preview
	}

	textFace := newFace(12)
	labelFace := newFace(10)

	for i, p := range placements {
		box := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)

		fill := lowConfidenceFill
		switch {
		case p.Confidence > 0.8:
			fill = highConfidenceFill
		case p.Confidence > 0.5:
			fill = mediumConfidenceFill
		}

		draw.Draw(preview, box.Intersect(preview.Bounds()), image.NewUniform(fill), image.Point{}, draw.Over)
		outline := color.NRGBA{R: fill.R, G: fill.G, B: fill.B, A: 255}
		drawBoxOutline(preview, box, outline)

		drawText(preview, p.Text, p.X+2, p.Y+2, textFace, previewTextColor)

		if showLabels {
			label := fmt.Sprintf("%d. %s", i+1, p.FieldName)
			labelY := p.Y - 15
			if p.Y <= 15 {
				labelY = p.Y + p.Height + 2
			}
			drawText(preview, label, p.X, labelY, labelFace, previewLabelColor)
		}
	}

	return preview
}

// SavePreview renders the overlay and writes it to path as PNG.
func SavePreview(path string, base image.Image, placements []Placement, showLabels bool) error {
	const op = "SavePreview"

	preview := RenderPreview(base, placements, showLabels)

	file, err := os.Create(path)
	if err != nil {
		return WrapFillError(op, err, "failed to create preview file")
	}
	defer file.Close()

	if err := png.Encode(file, preview); err != nil {
		return WrapFillError(op, err, "failed to encode preview")
	}
	return nil
}

// drawText renders s with its top-left corner at (x, y).
func drawText(dst *image.RGBA, s string, x, y int, face font.Face, col color.Color) {
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(s)
}

// drawBoxOutline strokes the rectangle with a fixed-width border.
func drawBoxOutline(dst *image.RGBA, box image.Rectangle, col color.Color) {
	src := image.NewUniform(col)
	bounds := dst.Bounds()
	edges := []image.Rectangle{
		image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+boxOutlineWidth), // top
		image.Rect(box.Min.X, box.Max.Y-boxOutlineWidth, box.Max.X, box.Max.Y), // bottom
		image.Rect(box.Min.X, box.Min.Y, box.Min.X+boxOutlineWidth, box.Max.Y), // left
		image.Rect(box.Max.X-boxOutlineWidth, box.Min.Y, box.Max.X, box.Max.Y), // right
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(bounds), src, image.Point{}, draw.Src)
	}
}

// newFace builds a Go Regular face at the given size, falling back to the
// fixed 7x13 face if the embedded font fails to parse.
func newFace(size float64) font.Face {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
