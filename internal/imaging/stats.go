package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#rrggbb"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// ColorFrequency represents a quantized color and its share of the image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"` // 0-100
	RGB        RGBColor `json:"rgb"`
}

// Stats summarizes the colour content of a rendered image.
type Stats struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Average is the mean colour over all pixels.
	Average ColorResult `json:"average"`

	// MeanLuma is the mean ITU-R 601-2 luminance, 0-255.
	MeanLuma int `json:"mean_luma"`

	// WarmBalance is the mean red minus the mean blue, in the range -255 to 255.
	// Positive values read as warm, negative as cool.
	WarmBalance float64 `json:"warm_balance"`

	// Tone is "warm", "cool" or "neutral" derived from WarmBalance.
	Tone string `json:"tone"`

	// Dominant lists the most frequent quantized colours, most common first.
	Dominant []ColorFrequency `json:"dominant"`
}

// neutralBand is the |WarmBalance| below which an image is reported neutral.
const neutralBand = 8.0

// DefaultDominantCount is the number of dominant colours Analyze reports.
const DefaultDominantCount = 5

// Analyze computes Stats for img.
//
// Returns an error for an empty image.
func Analyze(img image.Image, dominant int) (*Stats, error) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil, fmt.Errorf("cannot analyze empty image")
	}
	nrgba := toNRGBA(img)

	var sumR, sumG, sumB float64
	counts := make(map[RGBColor]int)
	w := bounds.Dx()
	for y := 0; y < bounds.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			r, g, b := row[i], row[i+1], row[i+2]
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(b)
			// Quantize to group similar colors
			counts[RGBColor{R: r / 16 * 16, G: g / 16 * 16, B: b / 16 * 16}]++
		}
	}

	n := float64(total)
	avg := RGBColor{
		R: uint8(math.Round(sumR / n)),
		G: uint8(math.Round(sumG / n)),
		B: uint8(math.Round(sumB / n)),
	}
	balance := (sumR - sumB) / n

	return &Stats{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Average:     describeColor(avg),
		MeanLuma:    int(meanLuma(nrgba)),
		WarmBalance: math.Round(balance*100) / 100,
		Tone:        tone(balance),
		Dominant:    dominantColors(counts, total, dominant),
	}, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

func tone(balance float64) string {
	switch {
	case balance > neutralBand:
		return "warm"
	case balance < -neutralBand:
		return "cool"
	}
	return "neutral"
}

func dominantColors(counts map[RGBColor]int, total, limit int) []ColorFrequency {
	colors := make([]ColorFrequency, 0, len(counts))
	for c, cnt := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        describeColor(c).Hex,
			Percentage: float64(cnt) / float64(total) * 100,
			RGB:        c,
		})
	}

	// Ties break on hex so the order is stable across runs.
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if limit > 0 && len(colors) > limit {
		colors = colors[:limit]
	}
	return colors
}

// describeColor converts an 8-bit RGB triple to its hex and HSL forms.
func describeColor(c RGBColor) ColorResult {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	h, s, l := cf.Hsl()
	return ColorResult{
		Hex: cf.Hex(),
		RGB: c,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}
