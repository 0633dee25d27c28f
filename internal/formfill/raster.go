package formfill

import (
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultDPI is the rasterization resolution for form analysis. All
// placement coordinates are pixels at this resolution.
const DefaultDPI = 150

// RasterizePage validates the source PDF and renders its first page to an
// image at the given DPI.
func RasterizePage(path string, dpi int) (image.Image, error) {
	const op = "RasterizePage"

	if dpi <= 0 {
		dpi = DefaultDPI
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, NewFillError(op, ErrInvalidPDF, err.Error())
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, WrapFillError(op, err, "failed to open PDF")
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, NewFillError(op, ErrNoPages, path)
	}

	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, WrapFillError(op, err, "failed to render page 1")
	}

	return img, nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, WrapFillError("PageCount", err, path)
	}
	return count, nil
}
