// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages chat sessions: creation, selection, rename,
// delete, and the mirroring of the active conversation to storage.
package session
