package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidRatio is returned by ParseRatio for unusable input.
var ErrInvalidRatio = errors.New("invalid aspect ratio")

// Ratio is a target width/height aspect ratio. The zero value is the
// "original" sentinel, meaning the uncropped source image.
type Ratio struct {
	Value float64
	Label string
}

// Original restores the uncropped image.
var Original = Ratio{Label: "original"}

// Preset ratios offered by front ends.
var PresetRatios = []Ratio{
	Original,
	{Value: 1, Label: "1:1"},
	{Value: 16.0 / 9.0, Label: "16:9"},
	{Value: 4.0 / 5.0, Label: "4:5"},
	{Value: 3.0 / 2.0, Label: "3:2"},
}

// IsOriginal reports whether r is the restore sentinel.
func (r Ratio) IsOriginal() bool { return r.Value == 0 }

func (r Ratio) String() string {
	if r.Label != "" {
		return r.Label
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// ParseRatio accepts "original" (also "reset", "originale"), "w:h" ("16:9",
// "2.39:1") or a positive decimal ("1.5").
func ParseRatio(s string) (Ratio, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "original", "originale", "reset":
		return Original, nil
	case "":
		return Ratio{}, fmt.Errorf("%w: empty", ErrInvalidRatio)
	}

	if parts := strings.Split(s, ":"); len(parts) == 2 {
		w, errW := strconv.ParseFloat(parts[0], 64)
		h, errH := strconv.ParseFloat(parts[1], 64)
		if errW != nil || errH != nil || !(w > 0) || !(h > 0) {
			return Ratio{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
		}
		return checkRatio(Ratio{Value: w / h, Label: s})
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return checkRatio(Ratio{Value: v})
}

func checkRatio(r Ratio) (Ratio, error) {
	if !(r.Value > 0) || math.IsInf(r.Value, 0) {
		return Ratio{}, fmt.Errorf("%w: %v", ErrInvalidRatio, r.Value)
	}
	return r, nil
}

// CenterCropRect returns the largest centred rectangle of the given aspect
// ratio inside bounds. Images wider than the ratio lose columns on both sides,
// taller images lose rows. The result is at least 1x1.
func CenterCropRect(bounds image.Rectangle, ratio float64) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 || !(ratio > 0) {
		return bounds
	}

	if float64(width)/float64(height) > ratio {
		newWidth := max(int(float64(height)*ratio), 1)
		offset := (width - newWidth) / 2
		return image.Rect(bounds.Min.X+offset, bounds.Min.Y, bounds.Min.X+offset+newWidth, bounds.Max.Y)
	}

	newHeight := max(int(float64(width)/ratio), 1)
	offset := (height - newHeight) / 2
	return image.Rect(bounds.Min.X, bounds.Min.Y+offset, bounds.Max.X, bounds.Min.Y+offset+newHeight)
}

// CropToRatio returns a centred crop of img at ratio as a new image.
// img is not modified.
func CropToRatio(img image.Image, ratio Ratio) (*image.NRGBA, error) {
	if ratio.IsOriginal() {
		return nil, fmt.Errorf("%w: original is not a crop target", ErrInvalidRatio)
	}
	if _, err := checkRatio(ratio); err != nil {
		return nil, err
	}
	return imaging.Crop(img, CenterCropRect(img.Bounds(), ratio.Value)), nil
}
