package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		input     string
		wantValue float64
		wantLabel string
	}{
		{"original", 0, "original"},
		{" Originale ", 0, "original"},
		{"reset", 0, "original"},
		{"1:1", 1, "1:1"},
		{"16:9", 16.0 / 9.0, "16:9"},
		{"4:5", 0.8, "4:5"},
		{"2.39:1", 2.39, "2.39:1"},
		{"1.5", 1.5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRatio(tt.input)
			if err != nil {
				t.Fatalf("ParseRatio failed: %v", err)
			}
			if math.Abs(r.Value-tt.wantValue) > 1e-9 {
				t.Errorf("value: got %v, want %v", r.Value, tt.wantValue)
			}
			if r.Label != tt.wantLabel {
				t.Errorf("label: got %q, want %q", r.Label, tt.wantLabel)
			}
		})
	}
}

func TestParseRatio_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "16:", ":9", "0:1", "1:0", "-1", "0", "1:2:3", "inf"} {
		if _, err := ParseRatio(input); !errors.Is(err, ErrInvalidRatio) {
			t.Errorf("ParseRatio(%q): expected ErrInvalidRatio, got %v", input, err)
		}
	}
}

func TestRatio_String(t *testing.T) {
	if got := (Ratio{Value: 1.5}).String(); got != "1.50" {
		t.Errorf("unlabeled ratio: got %s, want 1.50", got)
	}
	if got := Original.String(); got != "original" {
		t.Errorf("original: got %s", got)
	}
	if !Original.IsOriginal() {
		t.Error("Original should report IsOriginal")
	}
}

func TestPresetRatios(t *testing.T) {
	want := []string{"original", "1:1", "16:9", "4:5", "3:2"}
	if len(PresetRatios) != len(want) {
		t.Fatalf("got %d presets, want %d", len(PresetRatios), len(want))
	}
	for i, r := range PresetRatios {
		if r.Label != want[i] {
			t.Errorf("preset %d: got %s, want %s", i, r.Label, want[i])
		}
		parsed, err := ParseRatio(r.Label)
		if err != nil || math.Abs(parsed.Value-r.Value) > 1e-9 {
			t.Errorf("preset %s does not round trip through ParseRatio: %v %v", r.Label, parsed, err)
		}
	}
}

func TestCenterCropRect(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		ratio  float64
		want   image.Rectangle
	}{
		{"wide to square", image.Rect(0, 0, 200, 100), 1, image.Rect(50, 0, 150, 100)},
		{"tall to square", image.Rect(0, 0, 100, 200), 1, image.Rect(0, 50, 100, 150)},
		{"tall to 16:9", image.Rect(0, 0, 100, 200), 16.0 / 9.0, image.Rect(0, 72, 100, 128)},
		{"already matching", image.Rect(0, 0, 120, 120), 1, image.Rect(0, 0, 120, 120)},
		{"offset bounds", image.Rect(10, 10, 210, 110), 1, image.Rect(60, 10, 160, 110)},
		{"minimum one pixel", image.Rect(0, 0, 1, 1), 16.0 / 9.0, image.Rect(0, 0, 1, 1)},
		{"invalid ratio", image.Rect(0, 0, 30, 20), 0, image.Rect(0, 0, 30, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenterCropRect(tt.bounds, tt.ratio); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCropToRatio(t *testing.T) {
	img := createPatternImage(200, 100)

	cropped, err := CropToRatio(img, Ratio{Value: 1, Label: "1:1"})
	if err != nil {
		t.Fatalf("CropToRatio failed: %v", err)
	}
	if cropped.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("bounds: got %v, want 100x100 at origin", cropped.Bounds())
	}
	// the left edge of the crop is column 50 of the red quadrant
	if c := cropped.NRGBAAt(0, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("top-left: got %v, want red", c)
	}
	if c := cropped.NRGBAAt(99, 0); c != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("top-right: got %v, want green", c)
	}
	if img.Bounds().Dx() != 200 {
		t.Error("source image was modified")
	}
}

func TestCropToRatio_Invalid(t *testing.T) {
	for _, r := range []Ratio{Original, {Value: -1}, {Value: math.Inf(1)}, {Value: math.NaN()}} {
		_, err := CropToRatio(createPatternImage(10, 10), r)
		if !errors.Is(err, ErrInvalidRatio) {
			t.Errorf("%v: expected ErrInvalidRatio, got %v", r, err)
		}
	}
}
