// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT PALETTE
// =============================================================================

// Accent is a user-selectable accent color pair.
type Accent struct {
	// Name is the settings value this accent is keyed by.
	Name string

	// Primary is the main accent, used for the brand, selections and
	// the user's messages.
	Primary lipgloss.AdaptiveColor

	// Deep is a darker variant used for backgrounds and borders.
	Deep lipgloss.AdaptiveColor
}

// DefaultAccentName is used when the configured accent is unknown.
const DefaultAccentName = "blue"

// accents holds every accent selectable from settings.
var accents = map[string]Accent{
	"blue": {
		Name:    "blue",
		Primary: lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
		Deep:    lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#1E3A8A"},
	},
	"purple": {
		Name:    "purple",
		Primary: lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"},
		Deep:    lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#4C1D95"},
	},
	"emerald": {
		Name:    "emerald",
		Primary: lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
		Deep:    lipgloss.AdaptiveColor{Light: "#047857", Dark: "#064E3B"},
	},
	"amber": {
		Name:    "amber",
		Primary: lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
		Deep:    lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#78350F"},
	},
	"rose": {
		Name:    "rose",
		Primary: lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"},
		Deep:    lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#881337"},
	},
	"cyan": {
		Name:    "cyan",
		Primary: lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"},
		Deep:    lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#164E63"},
	},
}

// AccentByName looks up an accent by its settings value, falling back
// to the default accent for unknown names.
func AccentByName(name string) Accent {
	if a, ok := accents[name]; ok {
		return a
	}
	return accents[DefaultAccentName]
}

// AccentNames returns the selectable accent names in a stable order.
func AccentNames() []string {
	return []string{"blue", "purple", "emerald", "amber", "rose", "cyan"}
}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, quota exhaustion, caution states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success states, connected indicator
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
