// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the plain-terminal
// commands for prism: the readline chat REPL, one-shot ask, and the
// config/session/usage inspection commands. The full-screen TUI lives
// in internal/ui.
package cli
