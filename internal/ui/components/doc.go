// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the prism TUI:
// syntax-highlighted code blocks, the session picker list, the usage
// meter and the upgrade banner.
package components
