package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"
)

// fakeRasterizer serves fixed-size bitmaps for known regions and records
// capture order.
type fakeRasterizer struct {
	captured []string
}

func (f *fakeRasterizer) Capture(_ context.Context, regionID string, scale float64) (image.Image, error) {
	f.captured = append(f.captured, regionID)
	switch regionID {
	case "expense-breakdown", "monthly-trends":
		return image.NewRGBA(image.Rect(0, 0, int(640*scale), int(360*scale))), nil
	case "empty-region":
		return nil, NewEmptyCapture(regionID)
	default:
		return nil, NewRegionNotFound(regionID)
	}
}

// fakeBuilder records layout calls for assertions against the geometry.
type fakeBuilder struct {
	pages    int
	texts    []string
	images   []placedImage
	fillings int
}

type placedImage struct {
	name       string
	x, y, w, h float64
	page       int
}

func (f *fakeBuilder) AddPage()                { f.pages++ }
func (f *fakeBuilder) FillBackground(_, _, _ int) { f.fillings++ }
func (f *fakeBuilder) DrawTextCentered(text string, _, _ float64, _ bool) {
	f.texts = append(f.texts, text)
}
func (f *fakeBuilder) DrawTextLeft(text string, _, _, _ float64) { f.texts = append(f.texts, text) }
func (f *fakeBuilder) DrawTextRight(text string, _, _, _ float64) {
	f.texts = append(f.texts, text)
}
func (f *fakeBuilder) DrawImagePNG(name string, _ []byte, x, y, w, h float64) error {
	f.images = append(f.images, placedImage{name: name, x: x, y: y, w: w, h: h, page: f.pages})
	return nil
}
func (f *fakeBuilder) Output(io.Writer) error { return nil }

func newTestExporter(b *fakeBuilder) (*Exporter, *fakeRasterizer) {
	ras := &fakeRasterizer{}
	e := New(ras,
		WithBuilderFactory(func() DocumentBuilder { return b }),
		WithSettleDelay(0),
		WithClock(func() time.Time { return time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC) }),
	)
	return e, ras
}

func TestExportImage(t *testing.T) {
	e, _ := newTestExporter(&fakeBuilder{})
	art, err := e.Export(context.Background(), "expense-breakdown", Options{
		Filename: "breakdown", Format: FormatImage,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Filename != "breakdown.png" || art.ContentType != "image/png" {
		t.Fatalf("artifact meta: %+v", art)
	}
	img, err := png.Decode(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("artifact is not a PNG: %v", err)
	}
	// Captured at the fixed 2x upscaling factor.
	if img.Bounds().Dx() != 1280 || img.Bounds().Dy() != 720 {
		t.Fatalf("capture size %v", img.Bounds())
	}
}

func TestExportDocumentSinglePage(t *testing.T) {
	b := &fakeBuilder{}
	e, _ := newTestExporter(b)
	art, err := e.Export(context.Background(), "expense-breakdown", Options{
		Filename: "breakdown",
		Title:    "Expense Breakdown",
		Subtitle: "USD",
		Format:   FormatDocument,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Filename != "breakdown.pdf" || art.ContentType != "application/pdf" {
		t.Fatalf("artifact meta: %+v", art)
	}
	if b.pages != 1 {
		t.Fatalf("expected 1 page, got %d", b.pages)
	}
	assertText(t, b.texts, "Expense Breakdown")
	assertText(t, b.texts, "USD")
	assertText(t, b.texts, "Exported 2026-08-28 10:30")
	for _, txt := range b.texts {
		if strings.HasPrefix(txt, "Page ") {
			t.Fatalf("single-chart export must not draw page numbers, got %q", txt)
		}
	}
}

func TestExportDocumentImageCenteredInContentBox(t *testing.T) {
	b := &fakeBuilder{}
	e, _ := newTestExporter(b)
	if _, err := e.Export(context.Background(), "expense-breakdown", Options{
		Filename: "x", Format: FormatDocument,
	}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(b.images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(b.images))
	}
	img := b.images[0]
	pm := A4Landscape
	boxX, boxY, boxW, boxH := pm.ContentBox()
	if img.x < boxX || img.y < boxY || img.x+img.w > boxX+boxW+1e-9 || img.y+img.h > boxY+boxH+1e-9 {
		t.Fatalf("image escapes content box: %+v", img)
	}
	// Centered: symmetric slack on both axes.
	if slack := (img.x - boxX) - (boxX + boxW - img.x - img.w); slack > 1e-9 || slack < -1e-9 {
		t.Fatalf("image not horizontally centered: %+v", img)
	}
	// 640x360 capture keeps a 16:9 aspect.
	if ratio := img.w / img.h; ratio < 1.77 || ratio > 1.79 {
		t.Fatalf("aspect ratio distorted: %v", ratio)
	}
}

func TestExportAllTwoPages(t *testing.T) {
	b := &fakeBuilder{}
	e, ras := newTestExporter(b)
	art, err := e.ExportAll(context.Background(), []Page{
		{RegionID: "expense-breakdown", Title: "Expense Breakdown"},
		{RegionID: "monthly-trends", Title: "Monthly Trends"},
	}, "financial-report")
	if err != nil {
		t.Fatalf("export all: %v", err)
	}
	if art.Filename != "financial-report.pdf" {
		t.Fatalf("filename %q", art.Filename)
	}
	if b.pages != 2 {
		t.Fatalf("expected exactly 2 pages, got %d", b.pages)
	}
	// Deterministic capture order: breakdown before trends.
	if fmt.Sprint(ras.captured) != "[expense-breakdown monthly-trends]" {
		t.Fatalf("capture order %v", ras.captured)
	}
	assertText(t, b.texts, "Page 1 of 2")
	assertText(t, b.texts, "Page 2 of 2")
	// One bitmap per page, in order.
	if len(b.images) != 2 || b.images[0].page != 1 || b.images[1].page != 2 {
		t.Fatalf("images misplaced: %+v", b.images)
	}
}

func TestExportEmptyCapture(t *testing.T) {
	e, _ := newTestExporter(&fakeBuilder{})
	_, err := e.Export(context.Background(), "empty-region", Options{Filename: "x", Format: FormatImage})
	if KindOf(err) != KindEmptyCapture {
		t.Fatalf("expected EmptyCapture, got %v", err)
	}
	// The failure clears the busy flag; a retry reaches the rasterizer again.
	_, err = e.Export(context.Background(), "empty-region", Options{Filename: "x", Format: FormatImage})
	if KindOf(err) != KindEmptyCapture {
		t.Fatalf("expected EmptyCapture on retry, got %v", err)
	}
}

func TestExportRegionNotFound(t *testing.T) {
	e, _ := newTestExporter(&fakeBuilder{})
	_, err := e.Export(context.Background(), "nope", Options{Filename: "x", Format: FormatImage})
	if KindOf(err) != KindRegionNotFound {
		t.Fatalf("expected RegionNotFound, got %v", err)
	}
}

func TestExportInFlightGuard(t *testing.T) {
	e, _ := newTestExporter(&fakeBuilder{})
	if err := e.acquire("expense-breakdown"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	_, err := e.Export(context.Background(), "expense-breakdown", Options{Filename: "x", Format: FormatImage})
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	// Other regions are unaffected.
	if _, err := e.Export(context.Background(), "monthly-trends", Options{Filename: "x", Format: FormatImage}); err != nil {
		t.Fatalf("independent region blocked: %v", err)
	}
	e.release("expense-breakdown")
	if _, err := e.Export(context.Background(), "expense-breakdown", Options{Filename: "x", Format: FormatImage}); err != nil {
		t.Fatalf("release did not clear busy flag: %v", err)
	}
}

func TestExportAllReleasesOnBusy(t *testing.T) {
	e, _ := newTestExporter(&fakeBuilder{})
	if err := e.acquire("monthly-trends"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	_, err := e.ExportAll(context.Background(), []Page{
		{RegionID: "expense-breakdown"},
		{RegionID: "monthly-trends"},
	}, "report")
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	// The partially acquired first region must be rolled back.
	if err := e.acquire("expense-breakdown"); err != nil {
		t.Fatalf("first region leaked busy flag: %v", err)
	}
	e.release("expense-breakdown")
}

func assertText(t *testing.T, texts []string, want string) {
	t.Helper()
	for _, txt := range texts {
		if txt == want {
			return
		}
	}
	t.Fatalf("text %q not drawn; drawn: %v", want, texts)
}
