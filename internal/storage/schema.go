// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// schema creates the two collections of the persistence boundary.
// Messages are stored as a serialized JSON array; timestamps as unix
// epoch milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS user_settings (
	user_id            TEXT PRIMARY KEY,
	tier               TEXT NOT NULL,
	current_model      TEXT NOT NULL,
	daily_image_count  INTEGER NOT NULL DEFAULT 0,
	daily_image_limit  INTEGER NOT NULL DEFAULT 5,
	daily_token_usage  INTEGER NOT NULL DEFAULT 0,
	daily_token_limit  INTEGER NOT NULL DEFAULT 2000,
	usage_day          TEXT NOT NULL DEFAULT '',
	accent_color       TEXT NOT NULL DEFAULT '',
	system_instruction TEXT NOT NULL DEFAULT '',
	custom_starters    TEXT NOT NULL DEFAULT '[]',
	updated_at         INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	messages   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_sessions_user
	ON chat_sessions(user_id, updated_at DESC);
`
