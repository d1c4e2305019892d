// Package engine composes the interpreter, the processing pipeline, the edit
// history and the supporting stores into the editor's public API.
//
// An Engine starts Empty and becomes Loaded after the first successful load.
// While Empty every mutating operation is a no-op that returns false, and
// operations that produce output return ErrNoImage.
//
// Engine is not safe for concurrent use; front ends serialize calls.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/promptvision/internal/activity"
	"github.com/ironsheep/promptvision/internal/history"
	"github.com/ironsheep/promptvision/internal/imaging"
	"github.com/ironsheep/promptvision/internal/interpreter"
	"github.com/ironsheep/promptvision/internal/params"
	"github.com/ironsheep/promptvision/internal/presets"
)

var (
	// ErrNoImage is returned by output operations before an image is loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrNoPresetStore is returned by preset operations when no store is set.
	ErrNoPresetStore = errors.New("no preset store configured")
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Presets persists named parameter sets. Nil disables preset operations.
	Presets presets.Store

	// Activity receives a line per user action. Nil creates a default log.
	Activity *activity.Log

	// HistoryLimit caps the undo stack; zero keeps every snapshot.
	HistoryLimit int

	// JPEGQuality is used when saving JPEG files; zero selects the default.
	JPEGQuality int

	Logger zerolog.Logger
}

// Engine owns the image states, the current parameters and their history.
type Engine struct {
	original *image.NRGBA // decoded source, never modified
	base     *image.NRGBA // original or a crop of it; rendering starts here
	rendered *image.NRGBA
	source   string
	ratio    imaging.Ratio

	params   params.Set
	history  *history.Manager
	interp   *interpreter.Interpreter
	pipeline *imaging.Pipeline

	presets     presets.Store
	activity    *activity.Log
	jpegQuality int
	logger      zerolog.Logger
}

// New creates an Empty engine.
func New(opts Options) *Engine {
	log := opts.Activity
	if log == nil {
		log = activity.New(activity.DefaultCapacity)
	}
	return &Engine{
		ratio:       imaging.Original,
		params:      params.Defaults(),
		history:     history.New(opts.HistoryLimit),
		interp:      interpreter.New(),
		pipeline:    imaging.NewPipeline(),
		presets:     opts.Presets,
		activity:    log,
		jpegQuality: opts.JPEGQuality,
		logger:      opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// Loaded reports whether an image has been loaded.
func (e *Engine) Loaded() bool { return e.original != nil }

// LoadImage decodes the file at path and makes it the current image.
// On failure the engine state is unchanged.
func (e *Engine) LoadImage(path string) error {
	img, err := imaging.Load(path)
	if err != nil {
		e.logger.Warn().Err(err).Str("path", path).Msg("load failed")
		return err
	}
	e.LoadFromImage(img, path)
	return nil
}

// LoadFromImage makes img the current image. name identifies the source in
// Info and the activity log; it may be a path. Parameters reset to neutral,
// history is cleared and any crop is discarded. img is copied.
func (e *Engine) LoadFromImage(img image.Image, name string) {
	e.original = imaging.Clone(img)
	e.base = e.original
	e.source = name
	e.ratio = imaging.Original
	e.params = params.Defaults()
	e.history.Clear()
	e.render()

	b := e.original.Bounds()
	e.logger.Info().Str("source", name).Int("width", b.Dx()).Int("height", b.Dy()).Msg("image loaded")
	e.activity.Add(fmt.Sprintf("Loaded image: %s", filepath.Base(name)))
}

// UpdateParameter sets one parameter to the clamped value. It returns false,
// recording nothing, when no image is loaded, the name is unknown, or the
// clamped value equals the current one.
func (e *Engine) UpdateParameter(name string, value float64) bool {
	if !e.Loaded() {
		return false
	}
	n, ok := params.ParseName(name)
	if !ok {
		return false
	}
	next, _ := e.params.With(n, value)
	if !e.commit(next) {
		return false
	}
	e.activity.Add(fmt.Sprintf("Slider %s set to %.2f", n, next.Value(n)))
	return true
}

// UpdateParametersBatch applies several parameters as one undoable step.
// Unknown keys are ignored.
func (e *Engine) UpdateParametersBatch(values map[string]float64) bool {
	if !e.Loaded() {
		return false
	}
	next, applied := e.params.Merge(values)
	if !e.commit(next) {
		return false
	}
	e.activity.Add(fmt.Sprintf("Adjusted %s", joinNames(applied)))
	return true
}

// ApplyPrompt interprets text against the current parameters and applies the
// result as one undoable step. The bool is false when nothing changed.
func (e *Engine) ApplyPrompt(text string) (interpreter.Result, bool) {
	if !e.Loaded() || strings.TrimSpace(text) == "" {
		return interpreter.Result{}, false
	}
	result := e.interp.Parse(text, e.params)
	if result.Empty() {
		e.logger.Debug().Str("prompt", text).Msg("prompt matched nothing")
		return result, false
	}
	if !e.commit(result.Apply(e.params)) {
		return result, false
	}
	e.logger.Info().
		Str("prompt", text).
		Str("source", result.Source.String()).
		Strs("touched", result.TouchedNames()).
		Msg("prompt applied")
	e.activity.Add(fmt.Sprintf("Prompt: '%s' (changed: %s)", text, strings.Join(result.TouchedNames(), ", ")))
	return result, true
}

// CropToRatio replaces the base with a centred crop of the current base, or
// restores the uncropped source for imaging.Original. The parameter state is
// recorded in history but the crop itself is not undone by Undo.
func (e *Engine) CropToRatio(ratio imaging.Ratio) bool {
	if !e.Loaded() {
		return false
	}

	if ratio.IsOriginal() {
		if e.base == e.original {
			return false
		}
		e.history.Record(e.params)
		e.base = e.original
		e.ratio = imaging.Original
		e.render()
		e.activity.Add("Crop reset to original")
		return true
	}

	cropped, err := imaging.CropToRatio(e.base, ratio)
	if err != nil {
		e.logger.Debug().Err(err).Msg("crop rejected")
		return false
	}
	e.history.Record(e.params)
	e.base = cropped
	e.ratio = ratio
	e.render()

	b := cropped.Bounds()
	e.logger.Info().Str("ratio", ratio.String()).Int("width", b.Dx()).Int("height", b.Dy()).Msg("cropped")
	e.activity.Add(fmt.Sprintf("Applied crop ratio: %s", ratio))
	return true
}

// Undo restores the previous parameter state.
func (e *Engine) Undo() bool {
	if !e.Loaded() {
		return false
	}
	prev, ok := e.history.Undo(e.params)
	if !ok {
		return false
	}
	e.params = prev
	e.render()
	e.activity.Add("Undo")
	return true
}

// Redo re-applies the most recently undone state.
func (e *Engine) Redo() bool {
	if !e.Loaded() {
		return false
	}
	next, ok := e.history.Redo(e.params)
	if !ok {
		return false
	}
	e.params = next
	e.render()
	e.activity.Add("Redo")
	return true
}

// Params returns a copy of the current parameters.
func (e *Engine) Params() params.Set { return e.params }

// Rendered returns the current rendered image, or nil while Empty.
// The image is shared; callers must not modify it.
func (e *Engine) Rendered() image.Image {
	if e.rendered == nil {
		return nil
	}
	return e.rendered
}

// PromptMemory returns the interpreter's memory of the last explicit command.
func (e *Engine) PromptMemory() []interpreter.MemoryEntry { return e.interp.Memory() }

// Save writes the rendered image to path and returns the written path.
// The format follows the extension; a path without one is saved as PNG.
func (e *Engine) Save(path string) (string, error) {
	if !e.Loaded() {
		return "", ErrNoImage
	}
	written, err := imaging.Save(e.rendered, path, imaging.SaveOptions{JPEGQuality: e.jpegQuality})
	if err != nil {
		return "", err
	}
	e.logger.Info().Str("path", written).Msg("image saved")
	e.activity.Add(fmt.Sprintf("Image saved to: %s", filepath.Base(written)))
	return written, nil
}

// Preview returns the rendered image as PNG bytes.
func (e *Engine) Preview() ([]byte, error) {
	if !e.Loaded() {
		return nil, ErrNoImage
	}
	return imaging.EncodePNG(e.rendered)
}

// Stats returns colour statistics of the rendered image.
func (e *Engine) Stats() (*imaging.Stats, error) {
	if !e.Loaded() {
		return nil, ErrNoImage
	}
	return imaging.Analyze(e.rendered, imaging.DefaultDominantCount)
}

// ActivityLog returns the activity entries, newest first.
func (e *Engine) ActivityLog() []activity.Entry { return e.activity.Entries() }

// commit records the current state and switches to next. It returns false
// without recording when next equals the current state.
func (e *Engine) commit(next params.Set) bool {
	if next == e.params {
		return false
	}
	e.history.Record(e.params)
	e.params = next
	e.render()
	return true
}

func (e *Engine) render() {
	start := time.Now()
	e.rendered = e.pipeline.Render(e.base, e.params)
	e.logger.Debug().
		Str("params", e.params.String()).
		Dur("elapsed", time.Since(start)).
		Msg("rendered")
}

func joinNames(names []params.Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// checkStore guards preset operations.
func (e *Engine) checkStore(ctx context.Context) error {
	if e.presets == nil {
		return ErrNoPresetStore
	}
	return ctx.Err()
}
