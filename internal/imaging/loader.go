package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// ErrUnsupportedFormat is returned when saving to an extension with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultJPEGQuality is used by Save when SaveOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// Load decodes an image file and returns it as a fresh NRGBA raster whose
// bounds start at (0,0).
//
// Parameters:
//   - path: Path to the image file. PNG, JPEG, GIF, TIFF, BMP and WEBP are
//     supported.
//
// Returns:
//   - *image.NRGBA: A copy owned by the caller. EXIF orientation is applied.
//   - error: Non-nil if the file cannot be opened or decoded.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", filepath.Base(path), err)
	}
	return imaging.Clone(img), nil
}

// Decode reads an image from r and returns it as an NRGBA copy.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return imaging.Clone(img), nil
}

// Clone returns a copy of img as NRGBA with bounds starting at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// SaveOptions controls encoding on Save.
type SaveOptions struct {
	// JPEGQuality ranges 1-100. Zero selects DefaultJPEGQuality.
	JPEGQuality int
}

// Save encodes img to path, choosing the format from the extension.
// A path without extension gets ".png" appended. The written path is returned.
//
// # Errors
//
//   - ErrUnsupportedFormat for extensions with no encoder (including ".webp",
//     which is decode-only)
//   - File creation or encoding errors
func Save(img image.Image, path string, opts SaveOptions) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "tiff", "bmp", "webp" or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// FileSize is FileSizeBytes in human-readable form ("1.2 MB").
	FileSize string `json:"file_size"`
}

// Describe builds ImageInfo for an already decoded image and its source path.
// A missing file is not an error; the size fields are left empty.
func Describe(img *image.NRGBA, path string) *ImageInfo {
	bounds := img.Bounds()
	info := &ImageInfo{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   FormatName(path),
		HasAlpha: !img.Opaque(),
	}
	if path == "" {
		return info
	}
	if stat, err := os.Stat(path); err == nil {
		info.FileSizeBytes = stat.Size()
		info.FileSize = humanize.Bytes(uint64(stat.Size()))
	}
	return info
}

// FormatName maps a file extension to a format name.
func FormatName(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
