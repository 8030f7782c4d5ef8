// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/prismchat/prism/internal/controller"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/session"
	"github.com/prismchat/prism/internal/ui/components"
	"github.com/prismchat/prism/internal/ui/styles"
)

// eventBufferSize bounds the callback-to-Update bridge. Conversation
// wakes are coalesced through the render throttle, so dropping an
// event under pressure never loses transcript content.
const eventBufferSize = 64

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme
	keys  KeyMap

	// Domain wiring
	ctrl     *controller.Controller
	sessions *session.Manager
	conv     *model.Conversation
	settings *model.UserSettings
	ledger   *quota.Ledger

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Dimensions
	width  int
	height int
	ready  bool

	// Transcript state
	messages   []*model.Message
	generating bool
	throttle   *RenderThrottle
	renderer   *glamour.TermRenderer

	// Session picker overlay
	showPicker  bool
	picker      components.SessionList
	renaming    bool
	renameInput textinput.Model

	// Upsell banner
	upsell components.UpsellBanner

	// events bridges controller and conversation callbacks into the
	// Bubble Tea loop.
	events chan tea.Msg
}

// New wires the chat view to its controller, session manager and
// quota ledger. The conversation listener and controller callbacks
// registered here run on caller goroutines and only enqueue events.
func New(ctrl *controller.Controller, sessions *session.Manager, conv *model.Conversation, settings *model.UserSettings, ledger *quota.Ledger) *Model {
	input := textinput.New()
	input.Placeholder = "Message prism… (/imagine for images)"
	input.CharLimit = 4000
	input.Focus()

	rename := textinput.New()
	rename.Placeholder = "New title"
	rename.CharLimit = model.TitleMaxLen * 2

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &Model{
		theme:       styles.NewTheme(settings.AccentColor),
		keys:        DefaultKeyMap(),
		ctrl:        ctrl,
		sessions:    sessions,
		conv:        conv,
		settings:    settings,
		ledger:      ledger,
		input:       input,
		renameInput: rename,
		spinner:     sp,
		throttle:    NewRenderThrottle(),
		events:      make(chan tea.Msg, eventBufferSize),
	}
	m.spinner.Style = m.theme.Spinner

	conv.AddListener(func(snapshot []*model.Message) {
		m.throttle.Put(snapshot)
		m.post(ConversationChangedMsg{})
	})
	ctrl.SetOnGeneratingChanged(func(v bool) {
		m.post(GeneratingChangedMsg{Generating: v})
	})
	ctrl.SetOnUpsell(func() {
		m.post(UpsellMsg{})
	})

	return m
}

// post enqueues an event without ever blocking a domain goroutine.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// waitEvent returns a command that delivers the next bridged event.
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init starts the cursor blink, the spinner and the event bridge.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitEvent())
}

// Usage returns the current quota snapshot for the status area.
func (m *Model) Usage() quota.Usage {
	return m.ledger.Snapshot()
}

// SetAccent re-keys the theme, used when settings change on disk.
func (m *Model) SetAccent(name string) {
	m.theme.SetAccent(name)
	m.spinner.Style = m.theme.Spinner
}
