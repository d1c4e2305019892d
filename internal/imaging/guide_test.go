package imaging

import (
	"image/color"
	"testing"
)

func TestParseGuide(t *testing.T) {
	tests := []struct {
		input   string
		want    Guide
		wantErr bool
	}{
		{"", GuideNone, false},
		{"none", GuideNone, false},
		{"Thirds", GuideThirds, false},
		{" golden ", GuideGolden, false},
		{"center", GuideCenter, false},
		{"grid", GuideNone, true},
	}

	for _, tt := range tests {
		got, err := ParseGuide(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGuide(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGuide(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestGuideLines(t *testing.T) {
	if got := guideLines(GuideThirds, 90); len(got) != 2 || got[0] != 30 || got[1] != 60 {
		t.Errorf("thirds of 90: got %v, want [30 60]", got)
	}
	if got := guideLines(GuideGolden, 100); len(got) != 2 || got[0] != 38 || got[1] != 61 {
		t.Errorf("golden of 100: got %v, want [38 61]", got)
	}
	if got := guideLines(GuideCenter, 3); len(got) != 1 || got[0] != 1 {
		t.Errorf("center of 3: got %v, want [1]", got)
	}
	if got := guideLines(GuideNone, 100); len(got) != 0 {
		t.Errorf("none: got %v, want no lines", got)
	}
	if got := guideLines(GuideThirds, 1); len(got) != 0 {
		t.Errorf("1px axis: got %v, want no lines", got)
	}
}

func TestDrawGuide_Thirds(t *testing.T) {
	img := createInMemoryImage(90, 60, color.NRGBA{0, 0, 0, 255})

	result, err := DrawGuide(img, GuideThirds, "#ff0000")
	if err != nil {
		t.Fatalf("DrawGuide failed: %v", err)
	}

	if result.Bounds().Dx() != 90 || result.Bounds().Dy() != 60 {
		t.Errorf("dimensions: got %v", result.Bounds())
	}

	// Lines at x=30, x=60, y=20, y=40 are 60% red over black.
	onLine := result.NRGBAAt(30, 5)
	if onLine.R < 150 || onLine.R > 155 || onLine.G != 0 || onLine.B != 0 {
		t.Errorf("line pixel at (30,5): got %v, want about (153,0,0)", onLine)
	}
	if c := result.NRGBAAt(5, 40); c != onLine {
		t.Errorf("horizontal line at (5,40): got %v, want %v", c, onLine)
	}
	if c := result.NRGBAAt(60, 20); c != onLine {
		t.Errorf("crossing at (60,20) blended twice: got %v, want %v", c, onLine)
	}

	if c := result.NRGBAAt(15, 10); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("off-line pixel at (15,10): got %v, want black", c)
	}

	// Source untouched
	if c := img.NRGBAAt(30, 5); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("source modified: got %v", c)
	}
}

func TestDrawGuide_KeepsAlpha(t *testing.T) {
	img := createInMemoryImage(10, 10, color.NRGBA{0, 0, 0, 100})

	result, err := DrawGuide(img, GuideCenter, "")
	if err != nil {
		t.Fatalf("DrawGuide failed: %v", err)
	}
	if c := result.NRGBAAt(5, 2); c.A != 100 || c.R == 0 {
		t.Errorf("center line at (5,2): got %v, want tinted with alpha 100", c)
	}
}

func TestDrawGuide_InvalidColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	if _, err := DrawGuide(img, GuideThirds, "red"); err == nil {
		t.Error("expected an error for a non-hex colour")
	}
}
