package presets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/promptvision/internal/params"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		BackendJSON:   NewJSONStore(filepath.Join(dir, "presets.json"), zerolog.Nop()),
		BackendSQLite: sqlite,
	}
}

func vivid() params.Set {
	return params.FromMap(map[string]float64{
		"brightness": 1.1, "contrast": 1.3, "saturation": 1.6, "warmth": 1.05, "sharpness": 1.2,
	})
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, "vivid", vivid()))

			got, ok, err := store.Load(ctx, "vivid")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, vivid(), got)

			_, ok, err = store.Load(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, "look", vivid()))
			require.NoError(t, store.Save(ctx, "look", params.Defaults()))

			got, ok, err := store.Load(ctx, "look")
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, got.IsDefault())

			names, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"look"}, names)
		})
	}
}

func TestStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			names, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, names)

			for _, name := range []string{"warm", "Bold", "cool"} {
				require.NoError(t, store.Save(ctx, name, vivid()))
			}
			names, err = store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Bold", "cool", "warm"}, names)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, "gone", vivid()))

			deleted, err := store.Delete(ctx, "gone")
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = store.Delete(ctx, "gone")
			require.NoError(t, err)
			assert.False(t, deleted)
		})
	}
}

func TestStore_InvalidName(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			assert.ErrorIs(t, store.Save(ctx, "  ", vivid()), ErrInvalidName)

			_, _, err := store.Load(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = store.Delete(ctx, "\t")
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestStore_NameIsTrimmed(t *testing.T) {
	ctx := context.Background()
	for backend, store := range testStores(t) {
		t.Run(backend, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, " soft ", vivid()))
			_, ok, err := store.Load(ctx, "soft")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestJSONStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	store := NewJSONStore(path, zerolog.Nop())
	require.NoError(t, store.Save(context.Background(), "vivid", vivid()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"vivid\": {\n        \"brightness\": 1.1,")

	var decoded map[string]map[string]float64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, vivid().Map(), decoded["vivid"])
}

func TestJSONStore_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var logs bytes.Buffer
	store := NewJSONStore(path, zerolog.New(&logs))
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Contains(t, logs.String(), `"level":"warn"`)

	// the next save replaces the corrupt file
	require.NoError(t, store.Save(ctx, "fresh", vivid()))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, names)
}

func TestJSONStore_EmptyAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	for _, path := range []string{empty, filepath.Join(dir, "missing.json")} {
		names, err := NewJSONStore(path, zerolog.Nop()).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, names)
	}
}

func TestJSONStore_PartialPresetClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"odd": {"brightness": 9, "hue": 2}}`), 0644))

	got, ok, err := NewJSONStore(path, zerolog.Nop()).Load(context.Background(), "odd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, params.Max, got.Value(params.Brightness))
	assert.Equal(t, params.Neutral, got.Value(params.Contrast))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendJSON, filepath.Join(dir, "p.json"), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	s, err = Open(BackendSQLite, filepath.Join(dir, "p.db"), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", "x", zerolog.Nop())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidName))
}
