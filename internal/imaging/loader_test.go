package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// createInMemoryImage creates a solid in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLoad(t *testing.T) {
	imgPath := createTestImage(t, 100, 50, color.NRGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	img, err := Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Min != (image.Point{}) {
		t.Errorf("bounds should start at origin, got %v", bounds.Min)
	}
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x50", bounds.Dx(), bounds.Dy())
	}
	if c := img.NRGBAAt(10, 10); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel: got %v, want red", c)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestLoad_NotAnImage(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "not-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.WriteString("this is not an image")
	tmpFile.Close()

	if _, err := Load(tmpFile.Name()); err == nil {
		t.Error("Load should fail for a corrupt file")
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createPatternImage(20, 20)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if c := img.NRGBAAt(15, 15); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("bottom-right pixel: got %v, want white", c)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := createPatternImage(40, 30)

	tests := []struct {
		name     string
		file     string
		wantFile string
	}{
		{"png", "out.png", "out.png"},
		{"jpeg", "out.jpg", "out.jpg"},
		{"no extension", "out", "out.png"},
		{"bmp", "out.bmp", "out.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written, err := Save(img, filepath.Join(dir, tt.file), SaveOptions{})
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if filepath.Base(written) != tt.wantFile {
				t.Errorf("written path: got %s, want %s", filepath.Base(written), tt.wantFile)
			}

			loaded, err := Load(written)
			if err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if loaded.Bounds().Dx() != 40 || loaded.Bounds().Dy() != 30 {
				t.Errorf("reloaded dimensions: got %v", loaded.Bounds())
			}
		})
	}
}

func TestSave_PNGIsLossless(t *testing.T) {
	img := createPatternImage(16, 16)
	path, err := Save(img, filepath.Join(t.TempDir(), "exact.png"), SaveOptions{})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(loaded.Pix, img.Pix) {
		t.Error("PNG round trip changed pixels")
	}
}

func TestSave_Unsupported(t *testing.T) {
	img := createInMemoryImage(4, 4, color.White)

	for _, file := range []string{"out.webp", "out.xyz"} {
		_, err := Save(img, filepath.Join(t.TempDir(), file), SaveOptions{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", file, err)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(createInMemoryImage(8, 8, color.Black))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output does not start with the PNG signature")
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 8x8", cfg.Width, cfg.Height)
	}
}

func TestDescribe(t *testing.T) {
	imgPath := createTestImage(t, 64, 32, color.NRGBA{0, 128, 255, 255})
	defer os.Remove(imgPath)

	img, err := Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	info := Describe(img, imgPath)
	if info.Width != 64 || info.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.HasAlpha {
		t.Error("opaque image reported HasAlpha")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d", info.FileSizeBytes)
	}
	if !strings.HasSuffix(info.FileSize, "B") {
		t.Errorf("human file size: got %q", info.FileSize)
	}
}

func TestDescribe_NoFile(t *testing.T) {
	img := createInMemoryImage(4, 4, color.NRGBA{0, 0, 0, 128})

	info := Describe(img, "")
	if !info.HasAlpha {
		t.Error("translucent image should report HasAlpha")
	}
	if info.FileSizeBytes != 0 || info.FileSize != "" {
		t.Errorf("expected empty size fields, got %d %q", info.FileSizeBytes, info.FileSize)
	}
	if info.Format != "unknown" {
		t.Errorf("format: got %s, want unknown", info.Format)
	}
}

func TestFormatName(t *testing.T) {
	tests := map[string]string{
		"a.PNG":  "png",
		"a.jpeg": "jpeg",
		"a.JPG":  "jpeg",
		"a.gif":  "gif",
		"a.tif":  "tiff",
		"a.bmp":  "bmp",
		"a.webp": "webp",
		"a":      "unknown",
	}
	for path, want := range tests {
		if got := FormatName(path); got != want {
			t.Errorf("FormatName(%q) = %s, want %s", path, got, want)
		}
	}
}
