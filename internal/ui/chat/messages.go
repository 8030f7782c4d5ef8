// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat
// view. Conversation and controller callbacks run on other
// goroutines; they are turned into these messages via the event
// channel so all state changes happen inside Update.
package chat

import (
	"time"

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// EVENT BRIDGE MESSAGES
// =============================================================================

// ConversationChangedMsg carries a fresh conversation snapshot.
type ConversationChangedMsg struct {
	Snapshot []*model.Message
}

// GeneratingChangedMsg reports the controller's busy flag flipping.
type GeneratingChangedMsg struct {
	Generating bool
}

// UpsellMsg signals that a quota rejection asked for the upgrade
// banner.
type UpsellMsg struct{}

// SendFinishedMsg signals that a blocking send returned.
type SendFinishedMsg struct{}

// AccentChangedMsg re-keys the theme after a config reload.
type AccentChangedMsg struct {
	Name string
}

// =============================================================================
// INTERNAL MESSAGES
// =============================================================================

// renderTickMsg drives the streaming render throttle.
type renderTickMsg time.Time
