// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/ui/styles"
	"github.com/prismchat/prism/internal/util"
)

// =============================================================================
// USAGE METER
// =============================================================================

// meterWidth is the character width of the usage bar.
const meterWidth = 20

// UsageMeter renders the daily quota line shown to Free tier users.
type UsageMeter struct {
	Usage quota.Usage
}

// Render returns a one-line summary of token and image usage, or an
// empty string for tiers without limits.
func (u UsageMeter) Render(theme *styles.Theme) string {
	if !u.Usage.Tier.IsLimited() {
		return ""
	}

	tokens := bar(u.Usage.TokensUsed, u.Usage.TokenLimit)
	label := theme.UsageLabel.Render("Tokens ")
	value := theme.UsageValue.Render(
		util.IntToString(u.Usage.TokensUsed) + "/" + util.IntToString(u.Usage.TokenLimit))
	if u.Usage.TokensUsed >= u.Usage.TokenLimit {
		value = theme.UsageDanger.Render("limit reached")
	}

	images := theme.UsageLabel.Render("  Images ") + theme.UsageValue.Render(
		util.IntToString(u.Usage.ImagesUsed)+"/"+util.IntToString(u.Usage.ImageLimit))

	return label + tokens + " " + value + images
}

// bar renders a filled/empty block meter clamped to its bounds.
func bar(used, limit int) string {
	if limit <= 0 {
		return ""
	}
	filled := used * meterWidth / limit
	if filled > meterWidth {
		filled = meterWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
}
