// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// StoreError represents a storage-related error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed persistence service.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// USER SETTINGS
// =============================================================================

// UpsertSettings writes the settings row for a user, replacing any
// existing row.
func (s *Store) UpsertSettings(userID string, settings *model.UserSettings) error {
	starters, err := json.Marshal(settings.CustomStarters)
	if err != nil {
		return fmt.Errorf("encoding custom starters: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO user_settings
			(user_id, tier, current_model, daily_image_count, daily_image_limit,
			 daily_token_usage, daily_token_limit, usage_day, accent_color,
			 system_instruction, custom_starters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			tier = excluded.tier,
			current_model = excluded.current_model,
			daily_image_count = excluded.daily_image_count,
			daily_image_limit = excluded.daily_image_limit,
			daily_token_usage = excluded.daily_token_usage,
			daily_token_limit = excluded.daily_token_limit,
			usage_day = excluded.usage_day,
			accent_color = excluded.accent_color,
			system_instruction = excluded.system_instruction,
			custom_starters = excluded.custom_starters,
			updated_at = excluded.updated_at`,
		userID, string(settings.Tier), settings.CurrentModel,
		settings.DailyImageCount, settings.DailyImageLimit,
		settings.DailyTokenUsage, settings.DailyTokenLimit,
		settings.UsageDay, settings.AccentColor, settings.SystemInstruction,
		string(starters), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

// LoadSettings returns the stored settings for a user. The second return
// is false when no row exists.
func (s *Store) LoadSettings(userID string) (*model.UserSettings, bool, error) {
	row := s.db.QueryRow(`
		SELECT tier, current_model, daily_image_count, daily_image_limit,
		       daily_token_usage, daily_token_limit, usage_day, accent_color,
		       system_instruction, custom_starters
		FROM user_settings WHERE user_id = ?`, userID)

	var settings model.UserSettings
	var tier, starters string
	err := row.Scan(&tier, &settings.CurrentModel,
		&settings.DailyImageCount, &settings.DailyImageLimit,
		&settings.DailyTokenUsage, &settings.DailyTokenLimit,
		&settings.UsageDay, &settings.AccentColor,
		&settings.SystemInstruction, &starters)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading settings: %w", err)
	}

	settings.Tier = model.Tier(tier)
	if err := json.Unmarshal([]byte(starters), &settings.CustomStarters); err != nil {
		settings.CustomStarters = nil
	}
	return &settings, true, nil
}

// =============================================================================
// CHAT SESSIONS
// =============================================================================

// UpsertSession writes a session row for a user, replacing any existing
// row with the same id.
func (s *Store) UpsertSession(userID string, session *model.ChatSession) error {
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO chat_sessions (id, user_id, title, messages, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			messages = excluded.messages,
			updated_at = excluded.updated_at`,
		session.ID, userID, session.Title, string(messages),
		session.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

// ListSessions returns all sessions for a user, most recently updated
// first.
func (s *Store) ListSessions(userID string) ([]*model.ChatSession, error) {
	rows, err := s.db.Query(`
		SELECT id, title, messages, updated_at
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.ChatSession
	for rows.Next() {
		var sess model.ChatSession
		var messages string
		var updatedAt int64
		if err := rows.Scan(&sess.ID, &sess.Title, &messages, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(messages), &sess.Messages); err != nil {
			// Skip corrupted rows rather than failing the whole list.
			continue
		}
		sess.UpdatedAt = time.UnixMilli(updatedAt)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateSessionTitle renames a session by id.
func (s *Store) UpdateSessionTitle(id, title string) error {
	res, err := s.db.Exec(`
		UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
