// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai is the client for the hosted generative-language API.
//
// It converts conversation history to the provider's wire shape, streams
// responses over SSE, and normalizes provider failures into a small set of
// error kinds via a pluggable, ordered classifier. Streaming callbacks
// receive the CUMULATIVE text so far - callers replace displayed text,
// never append.
package genai
