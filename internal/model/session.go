// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CHAT SESSION
// =============================================================================

// TitleMaxLen is the maximum length of a derived session title before
// truncation.
const TitleMaxLen = 40

// DefaultTitle is the title of a session with no messages yet.
const DefaultTitle = "New Chat"

// ChatSession is a persisted chat: an ordered list of messages plus the
// metadata shown in the session list. The title is derived from the first
// message; it is recomputed on every sync but is stable once messages[0]
// is fixed.
type ChatSession struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewChatSession creates an empty session with a fresh ID.
func NewChatSession() *ChatSession {
	return &ChatSession{
		ID:        generateSessionID(),
		Title:     DefaultTitle,
		UpdatedAt: time.Now(),
	}
}

// DeriveTitle recomputes the session title from the first message.
// Sessions with no messages keep the default title.
func (s *ChatSession) DeriveTitle() {
	s.Title = TitleFromText(s.firstMessageText())
}

// TitleFromText derives a session title from message text: the text as-is,
// or truncated to TitleMaxLen runes with an ellipsis when longer.
func TitleFromText(text string) string {
	if text == "" {
		return DefaultTitle
	}
	runes := []rune(text)
	if len(runes) <= TitleMaxLen {
		return text
	}
	return string(runes[:TitleMaxLen]) + "..."
}

// MessageCount returns the number of messages in the session.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// Clone returns a copy of the session with its own message slice.
func (s *ChatSession) Clone() *ChatSession {
	cp := *s
	cp.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		cp.Messages[i] = m.Clone()
	}
	return &cp
}

func (s *ChatSession) firstMessageText() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[0].Text
}

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + uuid.NewString()
}
