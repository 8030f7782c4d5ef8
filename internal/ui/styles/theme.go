// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and re-derives every
// style from the configured accent.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Accent is the palette entry the theme was built from.
	Accent Accent

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble   lipgloss.Style
	ModelBubble  lipgloss.Style
	WarningText  lipgloss.Style
	ThinkingText lipgloss.Style
	Timestamp    lipgloss.Style
	FeedbackUp   lipgloss.Style
	FeedbackDown lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	TierBadge    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	UsageLabel   lipgloss.Style
	UsageValue   lipgloss.Style
	UsageDanger  lipgloss.Style

	// ==========================================================================
	// SESSION LIST STYLES
	// ==========================================================================

	SessionList         lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// UPSELL / WELCOME STYLES
	// ==========================================================================

	UpsellBanner lipgloss.Style
	WelcomeBox   lipgloss.Style
	WelcomeLogo  lipgloss.Style
	StarterChip  lipgloss.Style

	// Spinner style for the thinking indicator.
	Spinner lipgloss.Style
}

// NewTheme creates a theme for the named accent color. Unknown names
// fall back to the default accent.
func NewTheme(accentName string) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Accent:       AccentByName(accentName),
	}

	t.initStyles()
	return t
}

// SetAccent rebuilds the theme's styles for a new accent color.
func (t *Theme) SetAccent(accentName string) {
	t.Accent = AccentByName(accentName)
	t.initStyles()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	accent := t.Accent

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent.Primary).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent.Primary)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(accent.Primary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent.Deep).
		Padding(0, 2).
		MarginLeft(4)

	t.ModelBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1).
		MarginRight(4)

	t.WarningText = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FeedbackUp = lipgloss.NewStyle().Foreground(Emerald)
	t.FeedbackDown = lipgloss.NewStyle().Foreground(Rose)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent.Primary).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent.Primary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.TierBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(accent.Primary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent.Primary)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UsageLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.UsageValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.UsageDanger = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	// Session list
	t.SessionList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SessionItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(accent.Primary)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Upsell and welcome
	t.UpsellBanner = lipgloss.NewStyle().
		Foreground(Amber).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 2)

	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent.Primary).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent.Primary)

	t.StarterChip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().
		Foreground(accent.Primary)
}
