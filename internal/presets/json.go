package presets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ironsheep/promptvision/internal/params"
)

// JSONStore keeps all presets in one JSON object:
//
//	{
//	    "vivid": {"brightness": 1.1, "contrast": 1.3, ...}
//	}
//
// A missing, empty or corrupt file reads as no presets; a corrupt file is
// logged at warn level and replaced on the next Save.
type JSONStore struct {
	path   string
	logger zerolog.Logger
}

// NewJSONStore creates a store backed by the file at path.
// The file is created on the first Save.
func NewJSONStore(path string, logger zerolog.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger.With().Str("component", "presets").Logger(),
	}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) read() map[string]map[string]float64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read presets, treating as empty")
		}
		return map[string]map[string]float64{}
	}
	if len(data) == 0 {
		return map[string]map[string]float64{}
	}

	var presets map[string]map[string]float64
	if err := json.Unmarshal(data, &presets); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt presets file, treating as empty")
		return map[string]map[string]float64{}
	}
	if presets == nil {
		presets = map[string]map[string]float64{}
	}
	return presets
}

func (s *JSONStore) write(presets map[string]map[string]float64) error {
	data, err := json.MarshalIndent(presets, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create presets directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	return nil
}

// Save creates or overwrites a preset.
func (s *JSONStore) Save(_ context.Context, name string, p params.Set) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	presets := s.read()
	presets[name] = p.Map()
	if err := s.write(presets); err != nil {
		return err
	}
	s.logger.Debug().Str("preset", name).Msg("preset saved")
	return nil
}

// Load returns the named preset. Missing parameters read as neutral and
// out-of-range values are clamped.
func (s *JSONStore) Load(_ context.Context, name string) (params.Set, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return params.Defaults(), false, err
	}
	values, ok := s.read()[name]
	if !ok {
		return params.Defaults(), false, nil
	}
	return params.FromMap(values), true, nil
}

// List returns preset names sorted alphabetically.
func (s *JSONStore) List(_ context.Context) ([]string, error) {
	presets := s.read()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a preset. Deleting an unknown name is not an error.
func (s *JSONStore) Delete(_ context.Context, name string) (bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return false, err
	}
	presets := s.read()
	if _, ok := presets[name]; !ok {
		return false, nil
	}
	delete(presets, name)
	if err := s.write(presets); err != nil {
		return false, err
	}
	return true, nil
}

// Close is a no-op.
func (s *JSONStore) Close() error { return nil }
