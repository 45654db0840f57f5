package export

// Page layout geometry, kept as pure math so it can be tested against a fake
// DocumentBuilder. All dimensions are millimeters on a landscape A4 page.

const (
	// CaptureScale is the fixed upscaling factor applied when rasterizing a
	// chart region, for output quality.
	CaptureScale = 2.0

	// captureDPI is the logical pixel density of a rendered region before
	// upscaling; used to map captured pixels back to physical page units.
	captureDPI = 96.0

	mmPerInch = 25.4
)

// PageMetrics describes the fixed page geometry of exported documents.
type PageMetrics struct {
	Width  float64
	Height float64
	// Side margin, equal on left and right.
	Margin float64
	// TitleBand is the top band reserved for title and subtitle.
	TitleBand float64
	// FooterBand is the bottom band reserved for timestamp and page numbers.
	FooterBand float64
}

// A4Landscape is the fixed page size for all exported documents.
var A4Landscape = PageMetrics{
	Width:      297,
	Height:     210,
	Margin:     12,
	TitleBand:  30,
	FooterBand: 14,
}

// ContentBox returns the area available for the chart bitmap.
func (p PageMetrics) ContentBox() (x, y, w, h float64) {
	x = p.Margin
	y = p.TitleBand
	w = p.Width - 2*p.Margin
	h = p.Height - p.TitleBand - p.FooterBand
	return x, y, w, h
}

// PixelsToMM converts captured bitmap pixels to page millimeters, undoing the
// capture upscaling so a bitmap drawn at native size matches its on-screen
// footprint.
func PixelsToMM(px int, scale float64) float64 {
	return float64(px) / scale * mmPerInch / captureDPI
}

// FitRect scales a w×h rectangle to fit a box while preserving aspect ratio.
// The rectangle may grow as well as shrink.
func FitRect(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := boxW / w
	if s := boxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// FitRectShrink is FitRect but never scales up past native size.
func FitRectShrink(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := 1.0
	if s := boxW / w; s < scale {
		scale = s
	}
	if s := boxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// CenterRect positions a w×h rectangle centered inside the given box.
func CenterRect(w, h, boxX, boxY, boxW, boxH float64) (x, y float64) {
	return boxX + (boxW-w)/2, boxY + (boxH-h)/2
}
