// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota tracks per-tier daily usage counters and enforces the
// Free-tier limits.
package quota
