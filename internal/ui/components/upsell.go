// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/prismchat/prism/internal/ui/styles"
)

// UpsellBanner is shown after a quota rejection on the Free tier.
type UpsellBanner struct {
	Visible bool
}

// Render returns the upgrade prompt, or an empty string when hidden.
func (b UpsellBanner) Render(theme *styles.Theme) string {
	if !b.Visible {
		return ""
	}
	text := theme.WarningText.Render("Daily limit reached.") +
		" Upgrade to Pro for unlimited messages and images. " +
		theme.ShortcutDesc.Render("(esc to dismiss)")
	return theme.UpsellBanner.Render(text)
}
