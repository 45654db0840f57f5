package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"sync"
	"time"
)

// Format selects the artifact type for single-chart exports.
type Format string

const (
	FormatImage    Format = "image"
	FormatDocument Format = "document"
)

// Options controls a single-chart export.
type Options struct {
	Filename   string
	Title      string
	Subtitle   string
	Format     Format
	Background string // hex color drawn behind document pages, e.g. "#ffffff"
}

// Page is one entry of a multi-chart export, in capture order.
type Page struct {
	RegionID string
	Title    string
	Subtitle string
}

// Artifact is a finished download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Rasterizer captures the visual contents of a rendered chart region at the
// given upscaling factor. Implementations report unknown regions with
// NewRegionNotFound and content-less regions with NewEmptyCapture.
type Rasterizer interface {
	Capture(ctx context.Context, regionID string, scale float64) (image.Image, error)
}

// Exporter turns rendered chart regions into downloadable artifacts.
//
// At most one export runs per region at a time; a second request while one is
// in flight fails fast with ErrInFlight. The busy flag always clears, also on
// failure, so the next attempt can proceed.
type Exporter struct {
	ras        Rasterizer
	newBuilder func() DocumentBuilder
	page       PageMetrics
	settle     time.Duration
	now        func() time.Time

	mu   sync.Mutex
	busy map[string]bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithBuilderFactory swaps the document backend; tests use a fake builder.
func WithBuilderFactory(f func() DocumentBuilder) Option {
	return func(e *Exporter) { e.newBuilder = f }
}

// WithSettleDelay sets the pause before multi-chart captures, giving freshly
// rendered regions time to finish drawing.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Exporter) { e.settle = d }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// DefaultSettleDelay is applied before multi-chart captures.
const DefaultSettleDelay = 500 * time.Millisecond

func New(ras Rasterizer, opts ...Option) *Exporter {
	e := &Exporter{
		ras:        ras,
		newBuilder: NewPDFBuilder,
		page:       A4Landscape,
		settle:     DefaultSettleDelay,
		now:        time.Now,
		busy:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export captures one region and produces a PNG or a single-page PDF.
func (e *Exporter) Export(ctx context.Context, regionID string, o Options) (*Artifact, error) {
	if err := e.acquire(regionID); err != nil {
		return nil, err
	}
	defer e.release(regionID)

	data, img, err := e.capture(ctx, regionID)
	if err != nil {
		return nil, err
	}

	if o.Format == FormatImage {
		return &Artifact{
			Filename:    o.Filename + ".png",
			ContentType: "image/png",
			Data:        data,
		}, nil
	}

	b := e.newBuilder()
	e.composePage(b, pageSpec{
		imageName: regionID,
		png:       data,
		bounds:    img.Bounds(),
		title:     o.Title,
		subtitle:  o.Subtitle,
		bg:        o.Background,
		// Single-chart pages scale the bitmap to fit the content box.
		fit: FitRect,
	})

	var buf bytes.Buffer
	if err := b.Output(&buf); err != nil {
		return nil, assemblyFailure(regionID, err)
	}
	return &Artifact{
		Filename:    o.Filename + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// ExportAll captures every region in the given order, after a fixed settling
// delay, and produces one document with one page per region. Page 1 has no
// leading page break; each subsequent region starts a new page.
func (e *Exporter) ExportAll(ctx context.Context, pages []Page, filename string) (*Artifact, error) {
	if len(pages) == 0 {
		return nil, emptyCapture("report")
	}

	acquired := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := e.acquire(p.RegionID); err != nil {
			for _, id := range acquired {
				e.release(id)
			}
			return nil, err
		}
		acquired = append(acquired, p.RegionID)
	}
	defer func() {
		for _, id := range acquired {
			e.release(id)
		}
	}()

	// Regions are mounted just for this export; let the chart renderer
	// settle before the first capture.
	if err := e.wait(ctx); err != nil {
		return nil, err
	}

	b := e.newBuilder()
	total := len(pages)
	for i, p := range pages {
		data, img, err := e.capture(ctx, p.RegionID)
		if err != nil {
			return nil, err
		}
		e.composePage(b, pageSpec{
			imageName: p.RegionID + "-" + strconv.Itoa(i),
			png:       data,
			bounds:    img.Bounds(),
			title:     p.Title,
			subtitle:  p.Subtitle,
			pageNum:   i + 1,
			pageTotal: total,
			// Report pages shrink only, never past native resolution.
			fit: FitRectShrink,
		})
	}

	var buf bytes.Buffer
	if err := b.Output(&buf); err != nil {
		return nil, assemblyFailure("report", err)
	}
	return &Artifact{
		Filename:    filename + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func (e *Exporter) capture(ctx context.Context, regionID string) ([]byte, image.Image, error) {
	img, err := e.ras.Capture(ctx, regionID, CaptureScale)
	if err != nil {
		var ee *Error
		if errors.As(err, &ee) {
			return nil, nil, err
		}
		return nil, nil, &Error{Kind: KindEmptyCapture, Region: regionID, Err: err}
	}
	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, nil, emptyCapture(regionID)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, assemblyFailure(regionID, err)
	}
	return buf.Bytes(), img, nil
}

type pageSpec struct {
	imageName string
	png       []byte
	bounds    image.Rectangle
	title     string
	subtitle  string
	bg        string
	pageNum   int // 0 for single-chart pages (no page footer)
	pageTotal int
	fit       func(w, h, boxW, boxH float64) (float64, float64)
}

// composePage draws one page: title centered, optional subtitle below it, the
// bitmap aspect-fitted and centered in the content box, timestamp bottom-left
// and, on report pages, "Page N of M" bottom-right.
func (e *Exporter) composePage(b DocumentBuilder, spec pageSpec) {
	pm := e.page
	b.AddPage()

	if r, g, bl, ok := parseHexColor(spec.bg); ok {
		b.FillBackground(r, g, bl)
	}

	b.DrawTextCentered(spec.title, 14, 16, true)
	if spec.subtitle != "" {
		b.DrawTextCentered(spec.subtitle, 22, 11, false)
	}

	boxX, boxY, boxW, boxH := pm.ContentBox()
	imgW := PixelsToMM(spec.bounds.Dx(), CaptureScale)
	imgH := PixelsToMM(spec.bounds.Dy(), CaptureScale)
	w, h := spec.fit(imgW, imgH, boxW, boxH)
	x, y := CenterRect(w, h, boxX, boxY, boxW, boxH)
	// Draw errors surface at Output time through the builder backend.
	_ = b.DrawImagePNG(spec.imageName, spec.png, x, y, w, h)

	footerY := pm.Height - pm.FooterBand + 4
	b.DrawTextLeft("Exported "+e.now().Format("2006-01-02 15:04"), pm.Margin, footerY, 8)
	if spec.pageNum > 0 {
		b.DrawTextRight(fmt.Sprintf("Page %d of %d", spec.pageNum, spec.pageTotal), pm.Width-pm.Margin, footerY, 8)
	}
}

func (e *Exporter) acquire(regionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy[regionID] {
		return ErrInFlight
	}
	e.busy[regionID] = true
	return nil
}

func (e *Exporter) release(regionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, regionID)
}

func (e *Exporter) wait(ctx context.Context) error {
	if e.settle <= 0 {
		return nil
	}
	t := time.NewTimer(e.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func parseHexColor(s string) (r, g, b int, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
