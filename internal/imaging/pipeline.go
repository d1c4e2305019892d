package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/promptvision/internal/params"
)

// Stage is one enhancement step of the pipeline.
type Stage struct {
	Param params.Name
	Apply func(img *image.NRGBA, factor float64) *image.NRGBA
}

// stages is the mandatory order. Warmth must run last so its channel scaling
// is not flattened again by the tonal stages.
var stages = []Stage{
	{params.Saturation, enhanceSaturation},
	{params.Contrast, enhanceContrast},
	{params.Brightness, enhanceBrightness},
	{params.Sharpness, enhanceSharpness},
	{params.Warmth, applyWarmth},
}

// StageOrder returns the parameter names in the order they are applied.
func StageOrder() []params.Name {
	out := make([]params.Name, len(stages))
	for i, s := range stages {
		out[i] = s.Param
	}
	return out
}

// Pipeline renders a ParameterSet onto a base image.
//
// A Pipeline has no state: Render can be called repeatedly and concurrently on
// distinct inputs. The base image is never modified.
type Pipeline struct{}

// NewPipeline creates a pipeline with the standard stage order.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Render applies p to a working copy of base and returns the copy.
//
// Stages whose factor is exactly params.Neutral are skipped; this yields the
// same pixels as running the identity blend, so Render(base, params.Defaults())
// is pixel-identical to base.
//
// Parameters:
//   - base: Source raster. Any image.Image; the result always has bounds
//     starting at (0,0).
//   - p: Factors to apply.
//
// Returns a new *image.NRGBA owned by the caller, or nil when base is nil.
func (pl *Pipeline) Render(base image.Image, p params.Set) *image.NRGBA {
	if base == nil {
		return nil
	}
	img := imaging.Clone(base)
	for _, s := range stages {
		factor := p.Value(s.Param)
		if factor == params.Neutral {
			continue
		}
		img = s.Apply(img, factor)
	}
	return img
}
