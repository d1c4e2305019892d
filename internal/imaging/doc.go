// Package imaging provides the raster operations behind the photo editor.
//
// This package implements image decoding and export, centred aspect-ratio
// crops, colour statistics, preview composition guides, and the enhancement
// pipeline that renders a params.Set onto a base image. All results are *image.NRGBA values with
// bounds starting at (0,0), where X increases rightward and Y downward.
//
// # Pipeline
//
// Pipeline.Render applies the stages in a fixed order:
//
//	saturation -> contrast -> brightness -> sharpness -> warmth
//
// The first four blend the working image with a degenerate reference image:
//
//	out = degenerate + factor * (in - degenerate)
//
// using greyscale (saturation), mean grey (contrast), black (brightness) and a
// softened copy (sharpness) as references. Warmth scales red by the factor and
// blue by (2 - factor). A factor of exactly 1.0 skips its stage.
//
// # Thread Safety
//
// Pipeline is stateless. Render never modifies its input and can be called
// concurrently on different images. Pixel loops are split across goroutines
// with bild/parallel and joined before each stage returns.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Unparseable or non-positive aspect ratios (ErrInvalidRatio)
//   - Export extensions without an encoder (ErrUnsupportedFormat)
//   - Unknown guide names or malformed guide colours
//   - File I/O errors during loading and saving
package imaging
