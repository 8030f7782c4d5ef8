// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the in-memory message list for the currently selected
// session. It is a transient view: the session manager swaps its contents
// when the user switches sessions and mirrors every change to storage.
//
// All mutation goes through Update, a read-modify-write against the latest
// snapshot, so rapid-fire events cannot lose updates. Listeners fire after
// every mutation with a fresh snapshot.
type Conversation struct {
	mu        sync.RWMutex
	messages  []*Message
	listeners []func(snapshot []*Message)
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// AddListener registers a callback invoked after every mutation.
// The callback receives a snapshot and must not mutate it.
func (c *Conversation) AddListener(fn func(snapshot []*Message)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// =============================================================================
// SNAPSHOT ACCESS
// =============================================================================

// Snapshot returns a copy of the current message slice. The messages
// themselves are shared; callers must not mutate them.
func (c *Conversation) Snapshot() []*Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return c.Len() == 0
}

// Last returns the most recent message, or nil.
func (c *Conversation) Last() *Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Get returns the message with the given id, or nil.
func (c *Conversation) Get(id string) *Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// =============================================================================
// MUTATION
// =============================================================================

// Update applies fn to the latest message slice and installs the result.
// fn receives a copy it may append to or reslice freely.
func (c *Conversation) Update(fn func(messages []*Message) []*Message) {
	c.mu.Lock()
	c.messages = fn(c.snapshotLocked())
	snapshot := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg *Message) {
	c.Update(func(messages []*Message) []*Message {
		return append(messages, msg)
	})
}

// AddUserMessage appends a new user message and returns it.
func (c *Conversation) AddUserMessage(text string) *Message {
	msg := NewUserMessage(text)
	c.Append(msg)
	return msg
}

// AddModelMessage appends a completed model message and returns it.
func (c *Conversation) AddModelMessage(text string) *Message {
	msg := NewModelMessage(text)
	c.Append(msg)
	return msg
}

// AddModelPlaceholder appends an empty, thinking model message and
// returns it.
func (c *Conversation) AddModelPlaceholder() *Message {
	msg := NewModelPlaceholder()
	c.Append(msg)
	return msg
}

// ApplyPartial replaces the text of the message with the given id with the
// cumulative streamed text. No-op if the id is unknown.
func (c *Conversation) ApplyPartial(id, cumulative string) {
	c.Update(func(messages []*Message) []*Message {
		for _, m := range messages {
			if m.ID == id {
				m.ApplyPartial(cumulative)
				break
			}
		}
		return messages
	})
}

// FinalizeMessage sets the final text of the message with the given id.
func (c *Conversation) FinalizeMessage(id, text string) {
	c.Update(func(messages []*Message) []*Message {
		for _, m := range messages {
			if m.ID == id {
				m.Finalize(text)
				break
			}
		}
		return messages
	})
}

// SetFeedback records a thumbs rating on the message with the given id.
func (c *Conversation) SetFeedback(id string, fb Feedback) {
	c.Update(func(messages []*Message) []*Message {
		for _, m := range messages {
			if m.ID == id {
				m.Feedback = fb
				break
			}
		}
		return messages
	})
}

// SetMessages replaces the whole message list (used when switching
// sessions). Fires the change callback.
func (c *Conversation) SetMessages(messages []*Message) {
	c.Update(func([]*Message) []*Message {
		out := make([]*Message, len(messages))
		copy(out, messages)
		return out
	})
}

// Clear removes all messages.
func (c *Conversation) Clear() {
	c.SetMessages(nil)
}

func (c *Conversation) snapshotLocked() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}
