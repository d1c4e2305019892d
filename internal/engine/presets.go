package engine

import (
	"context"
	"fmt"
	"strings"
)

// SavePreset stores the current parameters under name.
func (e *Engine) SavePreset(ctx context.Context, name string) error {
	if err := e.checkStore(ctx); err != nil {
		return err
	}
	if !e.Loaded() {
		return ErrNoImage
	}
	if err := e.presets.Save(ctx, name, e.params); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	e.activity.Add(fmt.Sprintf("Preset saved: '%s'", strings.TrimSpace(name)))
	return nil
}

// ApplyPreset replaces the current parameters with the named preset as one
// undoable step. It returns false when the preset does not exist or would not
// change anything.
func (e *Engine) ApplyPreset(ctx context.Context, name string) (bool, error) {
	if err := e.checkStore(ctx); err != nil {
		return false, err
	}
	if !e.Loaded() {
		return false, ErrNoImage
	}
	p, ok, err := e.presets.Load(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to load preset: %w", err)
	}
	if !ok || !e.commit(p) {
		return false, nil
	}
	e.activity.Add(fmt.Sprintf("Preset applied: '%s'", strings.TrimSpace(name)))
	return true, nil
}

// ListPresets returns the stored preset names in ascending order.
func (e *Engine) ListPresets(ctx context.Context) ([]string, error) {
	if err := e.checkStore(ctx); err != nil {
		return nil, err
	}
	return e.presets.List(ctx)
}

// DeletePreset removes a preset and reports whether it existed.
func (e *Engine) DeletePreset(ctx context.Context, name string) (bool, error) {
	if err := e.checkStore(ctx); err != nil {
		return false, err
	}
	deleted, err := e.presets.Delete(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	if deleted {
		e.activity.Add(fmt.Sprintf("Preset deleted: '%s'", strings.TrimSpace(name)))
	}
	return deleted, nil
}
