package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// smoothKernel is the 3x3 softening kernel used as the sharpness reference.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// blend moves every pixel of img away from (or towards) the degenerate image:
//
//	out = degenerate + factor * (img - degenerate)
//
// Factor 0 yields the degenerate, 1 yields img, values above 1 extrapolate.
// Results are truncated and clamped to [0,255]; alpha is taken from img.
// img and degenerate must share bounds. img is overwritten and returned.
func blend(img, degenerate *image.NRGBA, factor float64) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w*4]
			deg := degenerate.Pix[y*degenerate.Stride : y*degenerate.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				for c := 0; c < 3; c++ {
					d := float64(deg[i+c])
					row[i+c] = truncate(d + factor*(float64(row[i+c])-d))
				}
			}
		}
	})
	return img
}

// blendConstant is blend against a degenerate image of a single grey level.
func blendConstant(img *image.NRGBA, level uint8, factor float64) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	d := float64(level)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				row[i+0] = truncate(d + factor*(float64(row[i+0])-d))
				row[i+1] = truncate(d + factor*(float64(row[i+1])-d))
				row[i+2] = truncate(d + factor*(float64(row[i+2])-d))
			}
		}
	})
	return img
}

// truncate converts to uint8 dropping the fraction, clamped to [0,255].
func truncate(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// luma is the ITU-R 601-2 luminance of an 8-bit RGB triple, rounded.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// grayscale returns the luma image of img as NRGBA with alpha preserved.
func grayscale(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				l := luma(row[i], row[i+1], row[i+2])
				row[i], row[i+1], row[i+2] = l, l, l
			}
		}
	})
	return out
}

// meanLuma returns the rounded mean luminance of img.
func meanLuma(img image.Image) uint8 {
	hist := imaging.Histogram(img)
	var mean float64
	for level, p := range hist {
		mean += float64(level) * p
	}
	return truncate(mean + 0.5)
}

// smooth returns img convolved with smoothKernel. Border pixels are copied
// unchanged so that sharpening never alters the frame edge.
func smooth(img *image.NRGBA) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < 3 || h < 3 {
		return imaging.Clone(img)
	}
	out := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	for y := 0; y < h; y++ {
		if y == 0 || y == h-1 {
			copy(out.Pix[y*out.Stride:y*out.Stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
			continue
		}
		copy(out.Pix[y*out.Stride:y*out.Stride+4], img.Pix[y*img.Stride:y*img.Stride+4])
		last := (w - 1) * 4
		copy(out.Pix[y*out.Stride+last:y*out.Stride+last+4], img.Pix[y*img.Stride+last:y*img.Stride+last+4])
	}
	return out
}

// enhanceSaturation blends towards the greyscale image.
func enhanceSaturation(img *image.NRGBA, factor float64) *image.NRGBA {
	return blend(img, grayscale(img), factor)
}

// enhanceContrast blends towards the uniform mean grey.
func enhanceContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	return blendConstant(img, meanLuma(img), factor)
}

// enhanceBrightness blends towards black.
func enhanceBrightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return blendConstant(img, 0, factor)
}

// enhanceSharpness blends towards the smoothed image.
func enhanceSharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	return blend(img, smooth(img), factor)
}

// applyWarmth scales red by factor and blue by (2 - factor); green and alpha
// are untouched. It is a tint, not a colour-temperature model.
func applyWarmth(img *image.NRGBA, factor float64) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cool := 2.0 - factor
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for i := 0; i < len(row); i += 4 {
				row[i+0] = truncate(float64(row[i+0]) * factor)
				row[i+2] = truncate(float64(row[i+2]) * cool)
			}
		}
	})
	return img
}
