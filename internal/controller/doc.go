// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates the send-message flow: quota check,
// optimistic message insertion, streaming generation, usage debits, and
// persistence sync.
package controller
