// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for prism.
//
// Configuration sources (in order of precedence):
//   - Environment variables (PRISM_API_KEY / GEMINI_API_KEY, PRISM_GUEST)
//   - ~/.prism/config.toml
//   - Built-in defaults
package config
