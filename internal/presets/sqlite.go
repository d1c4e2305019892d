package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/promptvision/internal/params"
)

const schema = `
CREATE TABLE IF NOT EXISTS presets (
    name TEXT PRIMARY KEY,
    brightness REAL NOT NULL DEFAULT 1.0,
    contrast REAL NOT NULL DEFAULT 1.0,
    saturation REAL NOT NULL DEFAULT 1.0,
    warmth REAL NOT NULL DEFAULT 1.0,
    sharpness REAL NOT NULL DEFAULT 1.0,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore keeps presets in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save creates or overwrites a preset.
func (s *SQLiteStore) Save(ctx context.Context, name string, p params.Set) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets (name, brightness, contrast, saturation, warmth, sharpness, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     brightness = excluded.brightness,
		     contrast = excluded.contrast,
		     saturation = excluded.saturation,
		     warmth = excluded.warmth,
		     sharpness = excluded.sharpness,
		     updated_at = excluded.updated_at`,
		name,
		p.Value(params.Brightness), p.Value(params.Contrast), p.Value(params.Saturation),
		p.Value(params.Warmth), p.Value(params.Sharpness),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	return nil
}

// Load returns the named preset.
func (s *SQLiteStore) Load(ctx context.Context, name string) (params.Set, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return params.Defaults(), false, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT brightness, contrast, saturation, warmth, sharpness
		 FROM presets WHERE name = ?`, name)

	var b, c, sat, w, sh float64
	if err := row.Scan(&b, &c, &sat, &w, &sh); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return params.Defaults(), false, nil
		}
		return params.Defaults(), false, fmt.Errorf("failed to load preset: %w", err)
	}

	return params.FromMap(map[string]float64{
		string(params.Brightness): b,
		string(params.Contrast):   c,
		string(params.Saturation): sat,
		string(params.Warmth):     w,
		string(params.Sharpness):  sh,
	}), true, nil
}

// List returns preset names sorted alphabetically.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a preset.
func (s *SQLiteStore) Delete(ctx context.Context, name string) (bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return false, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	return n > 0, nil
}
