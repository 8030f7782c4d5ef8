// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Prism"
	default:
		return string(r)
	}
}

// =============================================================================
// FEEDBACK TYPE
// =============================================================================

// Feedback is an optional thumbs rating on a model message.
type Feedback string

const (
	FeedbackNone Feedback = ""
	FeedbackUp   Feedback = "up"
	FeedbackDown Feedback = "down"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// A model message is created empty with IsThinking set while the first
// token is awaited. Incremental updates REPLACE Text with the cumulative
// response so far (the streaming contract is replace, not append); once
// finalized IsThinking is cleared and Text no longer changes.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Transient "awaiting first token" flag; never persisted.
	IsThinking bool `json:"-"`

	Feedback Feedback `json:"feedback,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, text)
}

// NewModelMessage creates a completed model message.
func NewModelMessage(text string) *Message {
	return NewMessage(RoleModel, text)
}

// NewModelPlaceholder creates an empty model message awaiting its first
// token.
func NewModelPlaceholder() *Message {
	return &Message{
		ID:         generateMessageID(),
		Role:       RoleModel,
		Timestamp:  time.Now(),
		IsThinking: true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// ApplyPartial replaces the message text with the cumulative streamed text
// and clears the thinking flag.
func (m *Message) ApplyPartial(cumulative string) {
	m.Text = cumulative
	m.IsThinking = false
}

// Finalize sets the final text and clears the thinking flag.
func (m *Message) Finalize(text string) {
	m.Text = text
	m.IsThinking = false
}

// IsEmpty returns true if the message has no text.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0
}

// Clone returns a shallow copy of the message.
func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}
