package formfill

import (
	"bytes"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

const writerFont = "Helvetica"

// WritePDF copies the source document and draws every placement's text on
// the first page at (x, y + fontSize), the baseline position matching the
// preview's top-left anchors. Remaining pages are imported unchanged.
// Returns the output path.
func WritePDF(srcPath string, placements []Placement, outPath string) (string, error) {
	const op = "WritePDF"

	if len(placements) == 0 {
		return "", NewFillError(op, ErrNoPlacements, "")
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return "", WrapFillError(op, err, "failed to read source PDF")
	}

	pageCount, err := PageCount(srcPath)
	if err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(src))

	for n := 1; n <= pageCount; n++ {
		tpl := importer.ImportPageFromStream(pdf, &rs, n, "/MediaBox")

		size := importer.GetPageSizes()[n]["/MediaBox"]
		w, h := size["w"], size["h"]

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, 0)

		if n != 1 {
			continue
		}

		pdf.SetFont(writerFont, "", DefaultFontSize)
		pdf.SetTextColor(0, 0, 0)
		for _, p := range placements {
			pdf.SetFontSize(float64(p.FontSize))
			pdf.Text(float64(p.X), float64(p.Y+p.FontSize), p.Text)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", WrapFillError(op, err, "failed to write output PDF")
	}

	return outPath, nil
}
