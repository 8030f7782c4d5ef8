// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"log"
	"sync"
	"time"

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// STORE BOUNDARY
// =============================================================================

// Store is the subset of the persistence service the manager needs.
// *storage.Store satisfies it; tests substitute counting stubs.
type Store interface {
	UpsertSession(userID string, session *model.ChatSession) error
	DeleteSession(id string) error
	UpdateSessionTitle(id, title string) error
	ListSessions(userID string) ([]*model.ChatSession, error)
	UpsertSettings(userID string, settings *model.UserSettings) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the session list and keeps the active conversation and the
// store consistent. Exactly one session is current at a time (or none,
// before the first chat).
//
// All persistence is fire-and-forget: failures are logged, never surfaced,
// and local state is never rolled back. Guest users get in-memory sessions
// only - the store is never called and the visible session list is empty.
type Manager struct {
	mu       sync.Mutex
	userID   string
	guest    bool
	store    Store
	conv     *model.Conversation
	sessions []*model.ChatSession // most recently updated first
	current  *model.ChatSession

	// suppressSync disables the conversation-change hook while the
	// manager itself rewrites the conversation (session switching).
	suppressSync bool

	// onSessionsChanged notifies the UI that the session list changed.
	onSessionsChanged func()

	// wg tracks detached persistence tasks so tests can drain them.
	wg sync.WaitGroup
}

// NewManager creates a manager for the given user over the given
// conversation view. A nil store or the guest user id disables all
// persistence.
func NewManager(userID string, store Store, conv *model.Conversation) *Manager {
	m := &Manager{
		userID: userID,
		guest:  userID == model.GuestUserID || store == nil,
		store:  store,
		conv:   conv,
	}
	conv.AddListener(func(snapshot []*model.Message) {
		m.handleConversationChange(snapshot)
	})
	return m
}

// SetOnSessionsChanged registers the session-list change callback.
func (m *Manager) SetOnSessionsChanged(fn func()) {
	m.mu.Lock()
	m.onSessionsChanged = fn
	m.mu.Unlock()
}

// UserID returns the owning user id.
func (m *Manager) UserID() string {
	return m.userID
}

// IsGuest returns true when persistence is disabled.
func (m *Manager) IsGuest() bool {
	return m.guest
}

// =============================================================================
// LOADING
// =============================================================================

// Load populates the session list from storage. Guests keep an empty
// list.
func (m *Manager) Load() error {
	if m.guest {
		return nil
	}
	sessions, err := m.store.ListSessions(m.userID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions = sessions
	m.mu.Unlock()
	m.notifySessionsChanged()
	return nil
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// Create starts a fresh session, makes it current, clears the
// conversation, and persists it (unless guest).
func (m *Manager) Create() *model.ChatSession {
	sess := model.NewChatSession()

	m.mu.Lock()
	m.sessions = append([]*model.ChatSession{sess}, m.sessions...)
	m.current = sess
	m.mu.Unlock()

	m.swapConversation(nil)
	m.persistSession(sess.Clone())
	m.notifySessionsChanged()
	return sess
}

// Select makes the session with the given id current and loads its
// messages into the conversation view. No-op if the id is unknown.
func (m *Manager) Select(id string) {
	m.mu.Lock()
	sess := m.findLocked(id)
	if sess == nil {
		m.mu.Unlock()
		return
	}
	m.current = sess
	messages := sess.Messages
	m.mu.Unlock()

	m.swapConversation(messages)
}

// Rename updates a session's title locally and remotely. Remote failure
// is logged only; local state is authoritative and not rolled back.
func (m *Manager) Rename(id, title string) {
	m.mu.Lock()
	sess := m.findLocked(id)
	if sess == nil {
		m.mu.Unlock()
		return
	}
	sess.Title = title
	m.mu.Unlock()

	if !m.guest {
		m.detach(func() {
			if err := m.store.UpdateSessionTitle(id, title); err != nil {
				log.Printf("session: rename %s not synced: %v", id, err)
			}
		})
	}
	m.notifySessionsChanged()
}

// Delete removes a session locally and remotely (same silent-failure
// policy as Rename). Deleting the current session clears the
// conversation.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	var removed bool
	for i, sess := range m.sessions {
		if sess.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			removed = true
			break
		}
	}
	wasCurrent := m.current != nil && m.current.ID == id
	if wasCurrent {
		m.current = nil
	}
	m.mu.Unlock()

	if !removed {
		return
	}
	if wasCurrent {
		m.swapConversation(nil)
	}
	if !m.guest {
		m.detach(func() {
			if err := m.store.DeleteSession(id); err != nil {
				log.Printf("session: delete %s not synced: %v", id, err)
			}
		})
	}
	m.notifySessionsChanged()
}

// Current returns the current session, or nil before the first chat.
func (m *Manager) Current() *model.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Sessions returns the visible session list, most recent first. Guests
// always see an empty list, even though their in-memory session exists.
func (m *Manager) Sessions() []*model.ChatSession {
	if m.guest {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ChatSession, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// =============================================================================
// SETTINGS SYNC
// =============================================================================

// SyncSettings persists the user's settings, fire-and-forget. No-op for
// guests.
func (m *Manager) SyncSettings(settings *model.UserSettings) {
	if m.guest {
		return
	}
	cp := *settings
	m.detach(func() {
		if err := m.store.UpsertSettings(m.userID, &cp); err != nil {
			log.Printf("session: settings not synced: %v", err)
		}
	})
}

// =============================================================================
// CONVERSATION SYNC
// =============================================================================

// handleConversationChange mirrors every conversation change into the
// current session: title rederived from the first message, updated-at
// bumped, upsert detached.
func (m *Manager) handleConversationChange(snapshot []*model.Message) {
	m.mu.Lock()
	if m.suppressSync || m.current == nil {
		m.mu.Unlock()
		return
	}
	m.current.Messages = snapshot
	m.current.DeriveTitle()
	m.current.UpdatedAt = time.Now()
	m.promoteCurrentLocked()
	snapshotSess := m.current.Clone()
	m.mu.Unlock()

	m.persistSession(snapshotSess)
	m.notifySessionsChanged()
}

// Wait blocks until all detached persistence tasks finish. Test helper;
// the application never calls it.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// =============================================================================
// INTERNAL
// =============================================================================

// persistSession upserts a session snapshot, fire-and-forget.
func (m *Manager) persistSession(sess *model.ChatSession) {
	if m.guest {
		return
	}
	m.detach(func() {
		if err := m.store.UpsertSession(m.userID, sess); err != nil {
			log.Printf("session: %s not synced: %v", sess.ID, err)
		}
	})
}

// swapConversation replaces the conversation contents without triggering
// a sync back into the current session.
func (m *Manager) swapConversation(messages []*model.Message) {
	m.mu.Lock()
	m.suppressSync = true
	m.mu.Unlock()

	m.conv.SetMessages(messages)

	m.mu.Lock()
	m.suppressSync = false
	m.mu.Unlock()
}

// findLocked returns the session with the given id. Caller holds the
// lock.
func (m *Manager) findLocked(id string) *model.ChatSession {
	for _, sess := range m.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// promoteCurrentLocked moves the current session to the front of the
// list, matching the updated-at ordering storage uses. Caller holds the
// lock.
func (m *Manager) promoteCurrentLocked() {
	for i, sess := range m.sessions {
		if sess == m.current {
			copy(m.sessions[1:i+1], m.sessions[:i])
			m.sessions[0] = m.current
			return
		}
	}
	m.sessions = append([]*model.ChatSession{m.current}, m.sessions...)
}

func (m *Manager) detach(task func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		task()
	}()
}

func (m *Manager) notifySessionsChanged() {
	m.mu.Lock()
	fn := m.onSessionsChanged
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}
