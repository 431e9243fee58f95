package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

const themeKey = "theme"

// Theme preference values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Themes is a storage for the theme preference
type Themes struct {
	db *sqlx.DB
}

// NewThemes creates a new Themes storage
func NewThemes(db *sqlx.DB) (*Themes, error) {
	if err := createStateTable(db); err != nil {
		return nil, err
	}
	return &Themes{db: db}, nil
}

// Load returns the stored theme preference, defaulting to light
func (t *Themes) Load() string {
	raw, ok, err := getValue(t.db, themeKey)
	if err != nil || !ok {
		return ThemeLight
	}

	var theme string
	if err := json.Unmarshal([]byte(raw), &theme); err != nil {
		slog.Warn("discarding malformed stored theme", "error", err)
		return ThemeLight
	}
	if theme != ThemeDark && theme != ThemeLight {
		return ThemeLight
	}
	return theme
}

// Save writes the theme preference to the storage
func (t *Themes) Save(theme string) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	if err := setValue(t.db, themeKey, string(raw)); err != nil {
		return err
	}

	slog.Debug("theme saved",
		slog.String("theme", theme),
	)
	return nil
}
