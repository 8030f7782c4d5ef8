// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat sessions and user settings in SQLite,
// keyed by user id. Guest users never reach this boundary.
package storage
