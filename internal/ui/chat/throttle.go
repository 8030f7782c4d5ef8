// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the streaming render throttle. Cumulative
// partials can arrive far faster than a terminal can usefully repaint;
// the throttle keeps only the latest snapshot and releases it at a
// capped frame rate so the transcript stays smooth without burning CPU.
package chat

import (
	"sync"
	"time"

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// RENDER THROTTLE
// =============================================================================

// throttleFPS caps transcript repaints during streaming.
const throttleFPS = 30

// throttleInterval is the minimum time between released snapshots.
const throttleInterval = time.Second / throttleFPS

// RenderThrottle coalesces conversation snapshots. Put is called from
// the event bridge on every change; Take is called from the render
// tick and returns the newest snapshot if enough time has passed.
//
// Snapshots are already copies, so only the latest one matters: each
// partial carries the full cumulative text.
type RenderThrottle struct {
	mu        sync.Mutex
	latest    []*model.Message
	dirty     bool
	lastFlush time.Time
	interval  time.Duration
}

// NewRenderThrottle creates a throttle at the default frame cap.
func NewRenderThrottle() *RenderThrottle {
	return &RenderThrottle{interval: throttleInterval}
}

// Put stores a snapshot, replacing any unreleased one.
func (t *RenderThrottle) Put(snapshot []*model.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = snapshot
	t.dirty = true
}

// Take returns the pending snapshot when the frame interval has
// elapsed. The boolean reports whether a repaint is due.
func (t *RenderThrottle) Take() ([]*model.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.dirty {
		return nil, false
	}
	if time.Since(t.lastFlush) < t.interval {
		return nil, false
	}

	t.dirty = false
	t.lastFlush = time.Now()
	return t.latest, true
}

// TakeNow returns the pending snapshot regardless of timing. Used when
// streaming ends so the final text is never held back a frame.
func (t *RenderThrottle) TakeNow() ([]*model.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.dirty {
		return nil, false
	}
	t.dirty = false
	t.lastFlush = time.Now()
	return t.latest, true
}
