package formfill

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whitePage(w, h int) *image.RGBA {
	page := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)
	return page
}

func asRGBA(t *testing.T, img image.Image) *image.RGBA {
	t.Helper()
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok, "preview should be *image.RGBA")
	return rgba
}

func TestRenderPreviewEmptyStoreReturnsBaseUnchanged(t *testing.T) {
	base := whitePage(400, 300)

	preview := asRGBA(t, RenderPreview(base, nil, true))

	assert.Equal(t, base.Bounds(), preview.Bounds())
	assert.Equal(t, base.Pix, preview.Pix, "no boxes may be drawn for an empty store")
}

func TestRenderPreviewDoesNotModifyBase(t *testing.T) {
	base := whitePage(400, 300)
	placements := []Placement{{FieldName: "Name", Text: "Jane", X: 10, Y: 10, Width: 200, Height: 25, Confidence: 1.0}}

	RenderPreview(base, placements, true)

	assert.Equal(t, whitePage(400, 300).Pix, base.Pix)
}

func TestRenderPreviewDrawsBoxAtAdjustedPosition(t *testing.T) {
	session := NewImageSession(whitePage(400, 300), "")
	session.Add("Name", "Jane", 10, 10)
	x := 50
	require.True(t, session.Adjust(0, Adjustment{X: &x}))

	preview := asRGBA(t, session.RenderPreview(true))

	inside := preview.RGBAAt(55, 15)
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, inside, "box interior should be tinted")

	oldSpot := preview.RGBAAt(12, 20)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, oldSpot, "old position should be clean after adjust")

	far := preview.RGBAAt(350, 250)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, far, "pixels outside all boxes stay untouched")
}

func TestRenderPreviewConfidenceTiers(t *testing.T) {
	base := whitePage(400, 300)

	high := asRGBA(t, RenderPreview(base, []Placement{
		{Text: "", X: 100, Y: 100, Width: 100, Height: 40, Confidence: 0.9},
	}, false))
	px := high.RGBAAt(150, 120)
	assert.Greater(t, px.G, px.R, "high confidence renders green")

	low := asRGBA(t, RenderPreview(base, []Placement{
		{Text: "", X: 100, Y: 100, Width: 100, Height: 40, Confidence: 0.2},
	}, false))
	px = low.RGBAAt(150, 120)
	assert.Greater(t, px.R, px.G, "low confidence renders red")

	medium := asRGBA(t, RenderPreview(base, []Placement{
		{Text: "", X: 100, Y: 100, Width: 100, Height: 40, Confidence: 0.6},
	}, false))
	px = medium.RGBAAt(150, 120)
	assert.Equal(t, px.R, px.G, "medium confidence renders yellow")
	assert.Greater(t, px.R, px.B)
}

func TestRenderPreviewIdempotent(t *testing.T) {
	base := whitePage(400, 300)
	placements := []Placement{
		{FieldName: "Name", Text: "Jane", X: 10, Y: 10, Width: 200, Height: 25, Confidence: 0.9},
		{FieldName: "Email", Text: "a@b.com", X: 10, Y: 60, Width: 200, Height: 25, Confidence: 0.4},
	}

	first := asRGBA(t, RenderPreview(base, placements, true))
	second := asRGBA(t, RenderPreview(base, placements, true))

	assert.Equal(t, first.Pix, second.Pix, "repeated renders must be pixel-identical")
}

func TestRenderPreviewNilBase(t *testing.T) {
	preview := asRGBA(t, RenderPreview(nil, nil, true))

	assert.Equal(t, image.Rect(0, 0, 800, 600), preview.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, preview.RGBAAt(400, 300))
}

func TestRenderPreviewLaterPlacementsDrawOnTop(t *testing.T) {
	base := whitePage(400, 300)
	placements := []Placement{
		{Text: "", X: 100, Y: 100, Width: 100, Height: 40, Confidence: 0.9}, // green
		{Text: "", X: 100, Y: 100, Width: 100, Height: 40, Confidence: 0.2}, // red, same box
	}

	preview := asRGBA(t, RenderPreview(base, placements, false))

	// The outline of the later placement is opaque, so the border must be
	// pure red regardless of what was under it.
	border := preview.RGBAAt(100, 100)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, border)
}
