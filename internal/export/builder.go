package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// DocumentBuilder is the port the page-layout code draws through, so the
// margin/scaling/centering math is testable independently of the concrete
// PDF backend.
type DocumentBuilder interface {
	// AddPage starts a new page; the first call creates page 1.
	AddPage()
	// FillBackground paints the whole current page.
	FillBackground(r, g, b int)
	// DrawTextCentered draws a line horizontally centered at baseline y.
	DrawTextCentered(text string, y, size float64, bold bool)
	// DrawTextLeft draws a line starting at x.
	DrawTextLeft(text string, x, y, size float64)
	// DrawTextRight draws a line ending at xRight.
	DrawTextRight(text string, xRight, y, size float64)
	// DrawImagePNG places PNG data at x,y scaled to w×h millimeters.
	DrawImagePNG(name string, png []byte, x, y, w, h float64) error
	// Output finalizes the document.
	Output(w io.Writer) error
}

// pdfBuilder renders through go-pdf/fpdf onto fixed-size landscape pages.
type pdfBuilder struct {
	pdf  *fpdf.Fpdf
	page PageMetrics
}

// NewPDFBuilder returns a DocumentBuilder producing landscape A4 PDFs.
func NewPDFBuilder() DocumentBuilder {
	return &pdfBuilder{
		pdf:  fpdf.New("L", "mm", "A4", ""),
		page: A4Landscape,
	}
}

func (b *pdfBuilder) AddPage() {
	b.pdf.AddPage()
}

func (b *pdfBuilder) FillBackground(r, g, bl int) {
	b.pdf.SetFillColor(r, g, bl)
	b.pdf.Rect(0, 0, b.page.Width, b.page.Height, "F")
}

func (b *pdfBuilder) DrawTextCentered(text string, y, size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	b.pdf.SetFont("Helvetica", style, size)
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.SetXY(0, y)
	b.pdf.CellFormat(b.page.Width, size/2, text, "", 0, "C", false, 0, "")
}

func (b *pdfBuilder) DrawTextLeft(text string, x, y, size float64) {
	b.pdf.SetFont("Helvetica", "", size)
	b.pdf.SetTextColor(90, 90, 90)
	b.pdf.SetXY(x, y)
	b.pdf.CellFormat(0, size/2, text, "", 0, "L", false, 0, "")
}

func (b *pdfBuilder) DrawTextRight(text string, xRight, y, size float64) {
	const cellW = 60.0
	b.pdf.SetFont("Helvetica", "", size)
	b.pdf.SetTextColor(90, 90, 90)
	b.pdf.SetXY(xRight-cellW, y)
	b.pdf.CellFormat(cellW, size/2, text, "", 0, "R", false, 0, "")
}

func (b *pdfBuilder) DrawImagePNG(name string, png []byte, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if b.pdf.Err() {
		return fmt.Errorf("register image %s: %w", name, b.pdf.Error())
	}
	b.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if b.pdf.Err() {
		return fmt.Errorf("place image %s: %w", name, b.pdf.Error())
	}
	return nil
}

func (b *pdfBuilder) Output(w io.Writer) error {
	return b.pdf.Output(w)
}
