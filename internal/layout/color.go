package layout

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// GradientStop is one colour stop of the vertical fill gradient.
// Offset 0 is the bar bottom, 1 the bar top.
type GradientStop struct {
	Offset float64
	Color  string
}

// gradientStopCount, saturation and lightness of the generated gradient.
const (
	gradientStopCount = 5
	gradientSat       = 0.9
	gradientLight     = 0.5
)

// HSLToRGB converts hue [0,360), saturation and lightness [0,1] to 8-bit
// channels. Hue wraps; saturation and lightness are clamped.
func HSLToRGB(h, s, l float64) (r, g, b uint8) {
	c := gg.HSL(h, clamp01(s), clamp01(l))
	return to8(c.R), to8(c.G), to8(c.B)
}

// HexRGB formats 8-bit channels as "#rrggbb".
func HexRGB(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// GradientStops spreads the style's hue range over evenly spaced stops.
func GradientStops(s Style) []GradientStop {
	stops := make([]GradientStop, gradientStopCount)
	for i := range stops {
		t := float64(i) / float64(gradientStopCount-1)
		hue := s.GradientHueStart + (s.GradientHueEnd-s.GradientHueStart)*t
		stops[i] = GradientStop{
			Offset: t,
			Color:  HexRGB(HSLToRGB(hue, gradientSat, gradientLight)),
		}
	}
	return stops
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
