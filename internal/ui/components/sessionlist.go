// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/ui/styles"
	"github.com/prismchat/prism/internal/util"
)

// =============================================================================
// SESSION LIST
// =============================================================================

// SessionList renders the chat history picker. Sessions arrive already
// ordered most-recent-first from the session manager.
type SessionList struct {
	Sessions []*model.ChatSession
	Cursor   int
	Width    int
	MaxRows  int
}

// NewSessionList creates a session list sized for the picker overlay.
func NewSessionList(sessions []*model.ChatSession, width int) SessionList {
	return SessionList{
		Sessions: sessions,
		Width:    width,
		MaxRows:  10,
	}
}

// MoveUp moves the cursor up, clamped at the top.
func (l *SessionList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves the cursor down, clamped at the bottom.
func (l *SessionList) MoveDown() {
	if l.Cursor < len(l.Sessions)-1 {
		l.Cursor++
	}
}

// Selected returns the session under the cursor, or nil when empty.
func (l *SessionList) Selected() *model.ChatSession {
	if l.Cursor < 0 || l.Cursor >= len(l.Sessions) {
		return nil
	}
	return l.Sessions[l.Cursor]
}

// Render returns the picker box.
func (l SessionList) Render(theme *styles.Theme) string {
	if len(l.Sessions) == 0 {
		return theme.SessionList.Render(theme.SessionMeta.Render("No chat history yet"))
	}

	innerWidth := l.Width - 8
	if innerWidth < 24 {
		innerWidth = 24
	}

	// Keep the cursor visible inside a fixed-height window.
	start := 0
	if l.Cursor >= l.MaxRows {
		start = l.Cursor - l.MaxRows + 1
	}
	end := start + l.MaxRows
	if end > len(l.Sessions) {
		end = len(l.Sessions)
	}

	var rows []string
	for i := start; i < end; i++ {
		sess := l.Sessions[i]
		rows = append(rows, l.renderRow(theme, sess, innerWidth, i == l.Cursor))
	}

	title := theme.HeaderBrand.Render("Chat History")
	help := theme.SessionMeta.Render("enter select · r rename · d delete · esc close")
	body := strings.Join(rows, "\n")
	return theme.SessionList.Render(title + "\n\n" + body + "\n\n" + help)
}

func (l SessionList) renderRow(theme *styles.Theme, sess *model.ChatSession, width int, selected bool) string {
	meta := relativeTime(sess.UpdatedAt)
	metaWidth := runewidth.StringWidth(meta)

	titleWidth := width - metaWidth - 2
	if titleWidth < 8 {
		titleWidth = 8
	}
	title := runewidth.Truncate(sess.Title, titleWidth, "…")
	title = runewidth.FillRight(title, titleWidth)

	row := title + "  " + theme.SessionMeta.Render(meta)
	if selected {
		return theme.SessionItemSelected.Render("▸ " + title + "  " + meta)
	}
	return theme.SessionItem.Render("  " + row)
}

// relativeTime renders an updated-at timestamp the way the history
// panel shows it: "just now", "5m ago", "3h ago", then a date.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return util.IntToString(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return util.IntToString(int(d.Hours())) + "h ago"
	default:
		return t.Format("Jan 2")
	}
}
