package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/jmoiron/sqlx"
)

const profileKey = "profile"

// Profiles is a storage for the user profile
type Profiles struct {
	db *sqlx.DB
}

// NewProfiles creates a new Profiles storage
func NewProfiles(db *sqlx.DB) (*Profiles, error) {
	if err := createStateTable(db); err != nil {
		return nil, err
	}
	return &Profiles{db: db}, nil
}

// Load returns the stored profile. A malformed stored value is treated as
// absent rather than an error, so a bad write can never lock the user out.
func (p *Profiles) Load() (chat.Profile, bool, error) {
	raw, ok, err := getValue(p.db, profileKey)
	if err != nil {
		return chat.Profile{}, false, err
	}
	if !ok {
		return chat.Profile{}, false, nil
	}

	var profile chat.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		slog.Warn("discarding malformed stored profile", "error", err)
		return chat.Profile{}, false, nil
	}

	slog.Debug("profile loaded",
		slog.String("name", profile.Name),
	)
	return profile, true, nil
}

// Save writes the profile to the storage
func (p *Profiles) Save(profile chat.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := setValue(p.db, profileKey, string(raw)); err != nil {
		return err
	}

	slog.Debug("profile saved",
		slog.String("name", profile.Name),
	)
	return nil
}
