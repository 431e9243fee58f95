package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/jmoiron/sqlx"
)

const sessionKey = "session"

// Sessions is a storage for the active conversation session
type Sessions struct {
	db *sqlx.DB
}

// NewSessions creates a new Sessions storage
func NewSessions(db *sqlx.DB) (*Sessions, error) {
	if err := createStateTable(db); err != nil {
		return nil, err
	}
	return &Sessions{db: db}, nil
}

// Load returns the stored session. A malformed stored value is treated as
// absent and cleared immediately so it never fails to parse twice.
func (s *Sessions) Load() (chat.Session, bool, error) {
	raw, ok, err := getValue(s.db, sessionKey)
	if err != nil {
		return chat.Session{}, false, err
	}
	if !ok {
		return chat.Session{}, false, nil
	}

	var session chat.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		slog.Warn("discarding malformed stored session", "error", err)
		if clearErr := s.Clear(); clearErr != nil {
			return chat.Session{}, false, clearErr
		}
		return chat.Session{}, false, nil
	}

	slog.Debug("session loaded",
		slog.String("session_id", session.SessionID),
		slog.Int("messages", len(session.Messages)),
	)
	return session, true, nil
}

// Save writes the session to the storage, stamping LastUpdated
func (s *Sessions) Save(session chat.Session) error {
	session.LastUpdated = time.Now()
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := setValue(s.db, sessionKey, string(raw)); err != nil {
		return err
	}

	slog.Debug("session saved",
		slog.String("session_id", session.SessionID),
		slog.Int("messages", len(session.Messages)),
	)
	return nil
}

// Clear removes the stored session
func (s *Sessions) Clear() error {
	if err := deleteValue(s.db, sessionKey); err != nil {
		return err
	}

	slog.Debug("session cleared")
	return nil
}
