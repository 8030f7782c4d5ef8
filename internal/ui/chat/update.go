// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ConversationChangedMsg:
		// While streaming the render tick paces repaints; otherwise
		// flush immediately.
		if !m.generating {
			if snapshot, ok := m.throttle.TakeNow(); ok {
				m.setMessages(snapshot)
			}
		}
		cmds = append(cmds, m.waitEvent())

	case GeneratingChangedMsg:
		wasGenerating := m.generating
		m.generating = msg.Generating
		if m.generating && !wasGenerating {
			cmds = append(cmds, m.renderTick(), m.spinner.Tick)
		}
		if !m.generating {
			// Never hold the final text back a frame.
			if snapshot, ok := m.throttle.TakeNow(); ok {
				m.setMessages(snapshot)
			}
		}
		cmds = append(cmds, m.waitEvent())

	case UpsellMsg:
		m.upsell.Visible = true
		m.resizeViewport()
		cmds = append(cmds, m.waitEvent())

	case SendFinishedMsg:
		// The controller's callbacks already updated everything.
		return m, nil

	case AccentChangedMsg:
		m.SetAccent(msg.Name)
		m.refreshViewport()
		return m, nil

	case renderTickMsg:
		if m.generating {
			if snapshot, ok := m.throttle.Take(); ok {
				m.setMessages(snapshot)
			}
			cmds = append(cmds, m.renderTick())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// renderTick schedules the next streaming repaint check.
func (m *Model) renderTick() tea.Cmd {
	return tea.Tick(throttleInterval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.generating {
			// Enter doubles as stop while a reply is streaming.
			m.ctrl.Stop()
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.Stop):
		if m.upsell.Visible {
			m.upsell.Visible = false
			m.resizeViewport()
			return m, nil
		}
		if m.generating {
			m.ctrl.Stop()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.sessions.Create()
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.picker = components.NewSessionList(m.sessions.Sessions(), m.width)
		m.showPicker = true
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down),
		key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line through the controller.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.input.Reset()

	return m, func() tea.Msg {
		m.ctrl.Send(context.Background(), text)
		return SendFinishedMsg{}
	}
}

// handlePickerKey drives the session history overlay.
func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		switch msg.String() {
		case "enter":
			if sel := m.picker.Selected(); sel != nil {
				m.sessions.Rename(sel.ID, m.renameInput.Value())
			}
			m.renaming = false
			m.renameInput.Blur()
			m.refreshPicker()
			return m, nil
		case "esc":
			m.renaming = false
			m.renameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		m.picker.MoveUp()
	case "down", "j":
		m.picker.MoveDown()
	case "enter":
		if sel := m.picker.Selected(); sel != nil {
			m.sessions.Select(sel.ID)
		}
		m.showPicker = false
	case "r":
		if sel := m.picker.Selected(); sel != nil {
			m.renaming = true
			m.renameInput.SetValue(sel.Title)
			m.renameInput.Focus()
		}
	case "d":
		if sel := m.picker.Selected(); sel != nil {
			m.sessions.Delete(sel.ID)
			m.refreshPicker()
		}
	case "esc", "ctrl+h":
		m.showPicker = false
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// refreshPicker re-reads the session list after a mutation.
func (m *Model) refreshPicker() {
	cursor := m.picker.Cursor
	m.picker = components.NewSessionList(m.sessions.Sessions(), m.width)
	if cursor >= len(m.picker.Sessions) {
		cursor = len(m.picker.Sessions) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.picker.Cursor = cursor
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height

	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}

	m.input.Width = width - 8
	m.ready = true
	m.resizeViewport()
	m.refreshViewport()
}

// chromeHeight is the number of rows used by everything except the
// transcript: header, usage line, input box and status bar.
func (m *Model) chromeHeight() int {
	h := 1 + 1 + 3 + 1
	if m.upsell.Visible {
		h += 3
	}
	return h
}

func (m *Model) resizeViewport() {
	if !m.ready {
		return
	}
	vh := m.height - m.chromeHeight()
	if vh < 1 {
		vh = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vh
	m.refreshViewport()
}

// setMessages installs a new transcript snapshot and repaints.
func (m *Model) setMessages(snapshot []*model.Message) {
	m.messages = snapshot
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}
