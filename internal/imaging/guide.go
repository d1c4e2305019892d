package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Guide is a composition overlay drawn on previews.
type Guide string

const (
	GuideNone   Guide = "none"
	GuideThirds Guide = "thirds"
	GuideGolden Guide = "golden"
	GuideCenter Guide = "center"
)

// DefaultGuideColor is used when no line colour is given.
const DefaultGuideColor = "#ffffff"

// guideOpacity is how strongly guide lines cover the underlying pixels.
const guideOpacity = 0.6

// ParseGuide accepts "none" (or ""), "thirds", "golden" or "center".
func ParseGuide(s string) (Guide, error) {
	switch g := Guide(strings.ToLower(strings.TrimSpace(s))); g {
	case "", GuideNone:
		return GuideNone, nil
	case GuideThirds, GuideGolden, GuideCenter:
		return g, nil
	}
	return GuideNone, fmt.Errorf("unknown guide %q (use none, thirds, golden or center)", s)
}

// fractions returns the relative line positions along one axis.
func (g Guide) fractions() []float64 {
	switch g {
	case GuideThirds:
		return []float64{1.0 / 3.0, 2.0 / 3.0}
	case GuideGolden:
		phi := (1 + math.Sqrt(5)) / 2
		return []float64{1 - 1/phi, 1 / phi}
	case GuideCenter:
		return []float64{0.5}
	}
	return nil
}

// guideLines maps fractions to pixel offsets on an axis of the given length.
func guideLines(g Guide, length int) []int {
	fr := g.fractions()
	lines := make([]int, 0, len(fr))
	for _, f := range fr {
		pos := int(float64(length) * f)
		if pos > 0 && pos < length {
			lines = append(lines, pos)
		}
	}
	return lines
}

// DrawGuide returns a copy of img with composition lines blended on top.
//
// Parameters:
//   - img: Source image; it is not modified.
//   - g: Guide to draw. GuideNone returns an unmodified copy.
//   - hex: Line colour as "#rrggbb"; empty selects DefaultGuideColor.
//
// Returns an error if hex is not a valid colour.
func DrawGuide(img image.Image, g Guide, hex string) (*image.NRGBA, error) {
	if hex == "" {
		hex = DefaultGuideColor
	}
	lineColor, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid guide color %q: %w", hex, err)
	}

	out := imaging.Clone(img)
	width, height := out.Bounds().Dx(), out.Bounds().Dy()

	blendAt := func(x, y int) {
		px := out.NRGBAAt(x, y)
		base, _ := colorful.MakeColor(color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255})
		r, g, b := base.BlendRgb(lineColor, guideOpacity).Clamped().RGB255()
		out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: px.A})
	}

	// Vertical lines
	for _, x := range guideLines(g, width) {
		for y := 0; y < height; y++ {
			blendAt(x, y)
		}
	}

	// Horizontal lines; crossings are blended once.
	verticals := guideLines(g, width)
	for _, y := range guideLines(g, height) {
		for x := 0; x < width; x++ {
			if containsInt(verticals, x) {
				continue
			}
			blendAt(x, y)
		}
	}

	return out, nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
