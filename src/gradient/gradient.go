// Package gradient maps a bounded slider value to a color-stop gradient used
// as the distance slider's track. The mapping is a pure function of
// (value, max) with three threshold bands.
package gradient

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

// Stop is one color stop with a position in percent of the track width.
type Stop struct {
	Color color.RGBA
	Pos   float64 // 0..100
}

// Track palette.
var (
	Green  = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	Yellow = color.RGBA{R: 227, G: 179, B: 65, A: 255}
	Orange = color.RGBA{R: 219, G: 109, B: 40, A: 255}
	Red    = color.RGBA{R: 218, G: 54, B: 51, A: 255}
)

// Percent converts value against max to a percentage clamped to [0,100].
// NaN input (malformed numeric entry) resolves to 0 so it lands in the
// lowest band rather than poisoning the stop positions.
func Percent(value, max float64) float64 {
	if max == 0 {
		return 0
	}
	p := value / max * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Stops returns the color-stop specification for the given value:
//
//	[0,33):   green ramping to yellow at the current percent
//	[33,66):  green/yellow fixed, orange ramps
//	[66,100]: green/yellow/orange fixed, red ramps
//
// Positions are monotonically non-decreasing.
func Stops(value, max float64) []Stop {
	p := Percent(value, max)
	switch {
	case p < 33:
		return []Stop{{Green, 0}, {Yellow, p}}
	case p < 66:
		return []Stop{{Green, 0}, {Yellow, 33}, {Orange, p}}
	default:
		return []Stop{{Green, 0}, {Yellow, 33}, {Orange, 66}, {Red, p}}
	}
}

// CSS renders the stop list in the linear-gradient syntax the service's web
// frontend uses, handy for logging and for golden comparisons in tests.
func CSS(value, max float64) string {
	stops := Stops(value, max)
	parts := make([]string, 0, len(stops))
	for _, s := range stops {
		parts = append(parts, fmt.Sprintf("%s %s%%", colorName(s.Color), trimFloat(s.Pos)))
	}
	return "linear-gradient(to right, " + strings.Join(parts, ", ") + ")"
}

// Track rasterizes the gradient into a w x h strip for the slider widget.
// Pixels left of the last stop interpolate between neighboring stops; the
// remainder of the track is filled with the final color.
func Track(value, max float64, w, h int) image.Image {
	stops := Stops(value, max)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		p := float64(x) / float64(w-1) * 100
		if w == 1 {
			p = 0
		}
		c := colorAt(stops, p)
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func colorAt(stops []Stop, p float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{A: 255}
	}
	if p <= stops[0].Pos {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if p <= stops[i].Pos {
			span := stops[i].Pos - stops[i-1].Pos
			if span <= 0 {
				return stops[i].Color
			}
			t := (p - stops[i-1].Pos) / span
			return lerp(stops[i-1].Color, stops[i].Color, t)
		}
	}
	return stops[len(stops)-1].Color
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func colorName(c color.RGBA) string {
	switch c {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	case Red:
		return "red"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s
}
