// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TIER TYPE
// =============================================================================

// Tier is the subscription tier of a user.
type Tier string

const (
	TierFree  Tier = "Free"
	TierPro   Tier = "Pro"
	TierUltra Tier = "Ultra"
)

// IsLimited returns true if the tier has enforced daily limits.
// Only the Free tier carries encoded limits; Pro and Ultra are unmetered.
func (t Tier) IsLimited() bool {
	return t == TierFree
}

// =============================================================================
// USER SETTINGS
// =============================================================================

// GuestUserID is the reserved user id for guest mode. Guests never persist
// sessions or settings; everything is memory-only and lost on exit.
const GuestUserID = "guest"

// Free tier daily limits.
const (
	FreeDailyTokenLimit = 2000
	FreeDailyImageLimit = 5
)

// DefaultModelID is the generation model used when none is configured.
const DefaultModelID = "gemini-2.0-flash"

// UserSettings holds per-user preferences and the daily usage counters the
// quota ledger maintains. Persisted per user id; mutated after every send.
type UserSettings struct {
	Tier         Tier   `json:"tier"`
	CurrentModel string `json:"current_model"`

	// Daily usage counters. UsageDay is the UTC day ("2006-01-02") the
	// counters belong to; both counters reset on first use in a new day.
	DailyImageCount int    `json:"daily_image_count"`
	DailyImageLimit int    `json:"daily_image_limit"`
	DailyTokenUsage int    `json:"daily_token_usage"`
	DailyTokenLimit int    `json:"daily_token_limit"`
	UsageDay        string `json:"usage_day"`

	// Presentation preferences.
	AccentColor       string   `json:"accent_color"`
	SystemInstruction string   `json:"system_instruction"`
	CustomStarters    []string `json:"custom_starters"`
}

// DefaultSettings returns Free-tier settings with default limits.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		Tier:            TierFree,
		CurrentModel:    DefaultModelID,
		DailyImageLimit: FreeDailyImageLimit,
		DailyTokenLimit: FreeDailyTokenLimit,
		AccentColor:     "blue",
	}
}
