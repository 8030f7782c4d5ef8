// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/ui/components"
)

// defaultStarters seed the welcome screen when the user has not
// configured their own.
var defaultStarters = []string{
	"Explain a concept",
	"Help me write something",
	"Brainstorm ideas",
	"/imagine a mountain at sunrise",
}

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	header := m.renderHeader()
	usage := m.renderUsage()
	input := m.renderInput()
	status := m.renderStatusBar()

	var middle string
	switch {
	case m.showPicker:
		middle = m.renderPicker()
	case len(m.messages) == 0:
		middle = m.renderWelcome()
	default:
		middle = m.viewport.View()
	}

	sections := []string{header}
	if b := m.upsell.Render(m.theme); b != "" {
		sections = append(sections, b)
	}
	sections = append(sections, middle, usage, input, status)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// CHROME
// =============================================================================

func (m *Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("✦ prism")
	title := "New Chat"
	if cur := m.sessions.Current(); cur != nil {
		title = cur.Title
	}
	line := brand + "  " + m.theme.HeaderTitle.Render(title)
	return m.theme.Header.Width(m.width).Render(line)
}

func (m *Model) renderUsage() string {
	meter := components.UsageMeter{Usage: m.ledger.Snapshot()}
	if line := meter.Render(m.theme); line != "" {
		return line
	}
	return m.theme.UsageLabel.Render(" ")
}

func (m *Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("› ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

func (m *Model) renderStatusBar() string {
	tier := m.theme.TierBadge.Render(string(m.settings.Tier))
	modelName := m.theme.UsageValue.Render(m.settings.CurrentModel)

	hints := []string{
		m.hint("enter", "send"),
		m.hint("esc", "stop"),
		m.hint("C-n", "new"),
		m.hint("C-h", "history"),
		m.hint("C-c", "quit"),
	}
	if m.generating {
		hints[0] = m.hint("enter", "stop")
	}

	left := tier + " " + modelName
	right := strings.Join(hints, "  ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) hint(k, desc string) string {
	return m.theme.ShortcutKey.Render(k) + m.theme.ShortcutDesc.Render(" "+desc)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders the conversation transcript for the viewport.
func (m *Model) renderMessages() string {
	var parts []string
	for i, msg := range m.messages {
		streaming := m.generating && i == len(m.messages)-1
		parts = append(parts, m.renderMessage(msg, streaming))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message, streaming bool) string {
	if msg.Role == model.RoleUser {
		bubble := m.theme.UserBubble.MaxWidth(m.width * 3 / 4).Render(msg.Text)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
	}

	if msg.IsThinking {
		return m.theme.ModelBubble.Render(
			m.spinner.View() + m.theme.ThinkingText.Render(" Thinking…"))
	}

	// Streaming partials repaint up to 30 times a second; keep them
	// cheap and save markdown rendering for the finalized text.
	if streaming {
		return m.theme.ModelBubble.Render(msg.Text)
	}
	return m.theme.ModelBubble.Render(m.renderMarkdown(msg.Text))
}

// renderMarkdown renders finalized model output, falling back to the
// raw text with highlighted code fences if glamour fails.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return components.ParseCodeBlocks(text, m.width-8)
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m *Model) renderPicker() string {
	box := m.picker.Render(m.theme)
	if m.renaming {
		prompt := m.theme.InputPrompt.Render("Rename: ")
		box += "\n" + m.theme.InputContainer.Render(prompt+m.renameInput.View())
	}
	vh := m.height - m.chromeHeight()
	if vh < 1 {
		vh = 1
	}
	return lipgloss.Place(m.width, vh, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderWelcome() string {
	starters := m.settings.CustomStarters
	if len(starters) == 0 {
		starters = defaultStarters
	}

	var chips []string
	for _, s := range starters {
		chips = append(chips, m.theme.StarterChip.Render(s))
	}

	body := m.theme.WelcomeLogo.Render("✦ prism") + "\n" +
		m.theme.HeaderSubtitle.Render("How can I help you today?") + "\n\n" +
		strings.Join(chips, "\n")
	box := m.theme.WelcomeBox.Render(body)

	vh := m.height - m.chromeHeight()
	if vh < 1 {
		vh = 1
	}
	return lipgloss.Place(m.width, vh, lipgloss.Center, lipgloss.Center, box)
}
