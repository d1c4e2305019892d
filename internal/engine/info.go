package engine

import (
	"github.com/ironsheep/promptvision/internal/imaging"
)

// Info describes the engine state for front ends.
type Info struct {
	Loaded bool   `json:"loaded"`
	Source string `json:"source,omitempty"`

	// Width and Height are the dimensions of the current base (after crop).
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	OriginalWidth  int    `json:"original_width,omitempty"`
	OriginalHeight int    `json:"original_height,omitempty"`
	Crop           string `json:"crop"`

	Params map[string]float64 `json:"params"`

	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`

	// File is set when the image came from a file on disk.
	File *imaging.ImageInfo `json:"file,omitempty"`
}

// Info returns a snapshot of the engine state.
func (e *Engine) Info() Info {
	undo, redo := e.history.Len()
	info := Info{
		Loaded:    e.Loaded(),
		Crop:      e.ratio.String(),
		Params:    e.params.Map(),
		UndoDepth: undo,
		RedoDepth: redo,
		CanUndo:   undo > 0,
		CanRedo:   redo > 0,
	}
	if !info.Loaded {
		return info
	}

	info.Source = e.source
	info.Width, info.Height = e.base.Bounds().Dx(), e.base.Bounds().Dy()
	info.OriginalWidth, info.OriginalHeight = e.original.Bounds().Dx(), e.original.Bounds().Dy()
	if imaging.FormatName(e.source) != "unknown" {
		info.File = imaging.Describe(e.original, e.source)
	}
	return info
}
