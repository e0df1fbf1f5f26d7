package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/m-dhieu/NYC-Train-Mobility-App/src/api"
)

var (
	seriesBlue  = drawing.Color{R: 68, G: 140, B: 238, A: 255}
	seriesGreen = drawing.Color{R: 60, G: 174, B: 104, A: 255}
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// RenderTimeSeries draws the trips-per-hour line chart. Hours and counts are
// parallel arrays; a length mismatch is clipped to the shorter side.
func RenderTimeSeries(d api.TimeDistribution, w, h int) image.Image {
	n := len(d.Hours)
	if len(d.Counts) < n {
		n = len(d.Counts)
	}
	if n == 0 {
		return Blank(w, h)
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	maxY := 0.0
	ticks := make([]chart.Tick, 0, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(d.Hours[i])
		ys[i] = float64(d.Counts[i])
		if ys[i] > maxY {
			maxY = ys[i]
		}
		if n <= 12 || d.Hours[i]%2 == 0 {
			ticks = append(ticks, chart.Tick{Value: xs[i], Label: fmt.Sprintf("%d", d.Hours[i])})
		}
	}
	if maxY <= 0 {
		maxY = 1
	}
	_, nMax := niceAxisBounds(0, maxY)
	st := chart.Style{StrokeWidth: 2, StrokeColor: seriesBlue, DotWidth: 3, DotColor: seriesBlue}
	ch := chart.Chart{
		Title:      "Trips by Pickup Hour",
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		Width:      w,
		Height:     h,
		XAxis:      chart.XAxis{Name: "Hour", Ticks: ticks, Range: &chart.ContinuousRange{Min: xs[0] - 0.5, Max: xs[n-1] + 0.5}},
		YAxis:      chart.YAxis{Name: "Trips", Range: &chart.ContinuousRange{Min: 0, Max: nMax}},
		Series:     []chart.Series{padSeries("Trips", xs, ys, st)},
	}
	return renderPNG(&ch, w, h, "time-series")
}

// RenderDurationHistogram draws the binned duration bar chart.
func RenderDurationHistogram(d api.DurationHistogram, w, h int) image.Image {
	n := len(d.Bins)
	if len(d.Counts) < n {
		n = len(d.Counts)
	}
	if n == 0 {
		return Blank(w, h)
	}
	bars := make([]chart.Value, 0, n)
	maxY := 0.0
	for i := 0; i < n; i++ {
		v := float64(d.Counts[i])
		if v > maxY {
			maxY = v
		}
		bars = append(bars, chart.Value{Label: d.Bins[i], Value: v})
	}
	if maxY <= 0 {
		maxY = 1
	}
	_, nMax := niceAxisBounds(0, maxY)
	bc := chart.BarChart{
		Title:      "Trip Duration Distribution",
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		Width:      w,
		Height:     h,
		BarWidth:   barWidth(w, n),
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: nMax}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[charts] histogram render error: %v; showing blank fallback\n", err)
		return Blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[charts] histogram decode error: %v; showing blank fallback\n", err)
		return Blank(w, h)
	}
	return img
}

// RenderPickupScatter draws the pickup heatmap sample as a dot cloud
// (longitude on X, latitude on Y).
func RenderPickupScatter(d api.PickupHeatmap, w, h int) image.Image {
	n := len(d.Locations)
	if n == 0 {
		return Blank(w, h)
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for i, p := range d.Locations {
		xs[i] = p.X
		ys[i] = p.Y
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	xLo, xHi := niceAxisBounds(minX, maxX)
	yLo, yHi := niceAxisBounds(minY, maxY)
	ch := chart.Chart{
		Title:      "Pickup Locations",
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		Width:      w,
		Height:     h,
		XAxis:      chart.XAxis{Name: "Longitude", Range: &chart.ContinuousRange{Min: xLo, Max: xHi}},
		YAxis:      chart.YAxis{Name: "Latitude", Range: &chart.ContinuousRange{Min: yLo, Max: yHi}},
		Series:     []chart.Series{padSeries("Pickups", xs, ys, pointStyle(seriesGreen))},
	}
	return renderPNG(&ch, w, h, "scatter")
}

// padSeries pads single-point data so go-chart sees a non-zero X range.
func padSeries(name string, xs, ys []float64, st chart.Style) chart.Series {
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}

func renderPNG(ch *chart.Chart, w, h int, what string) image.Image {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[charts] %s render error: %v; showing blank fallback\n", what, err)
		return Blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[charts] %s decode error: %v; showing blank fallback\n", what, err)
		return Blank(w, h)
	}
	return img
}

func barWidth(w, n int) int {
	if n <= 0 {
		return 20
	}
	bw := (w - 80) / (n * 2)
	if bw < 12 {
		bw = 12
	}
	if bw > 90 {
		bw = 90
	}
	return bw
}

// Blank returns a dark placeholder image shown before the first response and
// as the fallback when a render fails.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

// WithCaption draws a small status string onto the image near the
// bottom-left, used for per-panel notices.
func WithCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice"
// numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}
