// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package quota

import (
	"math"
	"sync"
	"time"

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// REQUEST KIND
// =============================================================================

// Kind classifies what a send is priced as.
type Kind int

const (
	// KindToken is a normal text generation, priced in tokens.
	KindToken Kind = iota
	// KindImage is an image generation, priced per image.
	KindImage
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "token"
}

// =============================================================================
// PRICING CONSTANTS
// =============================================================================

const (
	// promptCostRatio is the estimated tokens per prompt character.
	promptCostRatio = 0.25

	// replyChargeChars is the fixed character count a reply is charged as,
	// regardless of its actual length. Reproduced exactly from the
	// reference system for compatibility: ceil(50*0.25) = 13 tokens.
	replyChargeChars = 50
)

// usageDayFormat is the UTC day key counters are scoped to.
const usageDayFormat = "2006-01-02"

// =============================================================================
// LEDGER
// =============================================================================

// Ledger enforces daily usage limits and applies debits against a user's
// settings. Only the Free tier is ever rejected; Pro and Ultra carry no
// encoded limit. Checks never mutate state; debits happen after the
// corresponding action, except the prompt estimate which is pre-paid on
// acceptance and not refunded on failure.
//
// Counters reset on first use in a new UTC day. The reference system left
// the reset boundary undefined; UTC midnight is this implementation's
// documented choice.
type Ledger struct {
	mu       sync.Mutex
	settings *model.UserSettings

	// now is swappable for tests.
	now func() time.Time
}

// NewLedger creates a ledger over the given settings. The settings struct
// is shared with the caller; the ledger is its only writer for the usage
// counters.
func NewLedger(settings *model.UserSettings) *Ledger {
	return &Ledger{
		settings: settings,
		now:      time.Now,
	}
}

// =============================================================================
// CHECKS
// =============================================================================

// Check reports whether a send of the given kind is allowed. It mutates no
// counters; rejection is a decision, not an error.
func (l *Ledger) Check(kind Kind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	if !l.settings.Tier.IsLimited() {
		return true
	}

	switch kind {
	case KindImage:
		return l.settings.DailyImageCount < l.settings.DailyImageLimit
	default:
		return l.settings.DailyTokenUsage < l.settings.DailyTokenLimit
	}
}

// =============================================================================
// DEBITS
// =============================================================================

// DebitPrompt charges the prompt-token estimate for the given text and
// returns the amount charged. Called immediately on acceptance; the charge
// is not refunded if the generation later fails.
func (l *Ledger) DebitPrompt(text string) int {
	cost := TokenEstimate(text)
	l.debitTokens(cost)
	return cost
}

// DebitReply charges the fixed reply cost after a successful text
// generation and returns the amount charged. The charge is independent of
// the actual reply length (see replyChargeChars).
func (l *Ledger) DebitReply() int {
	cost := estimateChars(replyChargeChars)
	l.debitTokens(cost)
	return cost
}

// DebitImage charges one image after a successful image generation.
func (l *Ledger) DebitImage() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	l.settings.DailyImageCount++
}

// =============================================================================
// USAGE ACCESS
// =============================================================================

// Usage is a point-in-time snapshot of the daily counters.
type Usage struct {
	Tier       model.Tier
	TokensUsed int
	TokenLimit int
	ImagesUsed int
	ImageLimit int
	Day        string
}

// Snapshot returns the current usage counters after applying any pending
// day rollover.
func (l *Ledger) Snapshot() Usage {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return Usage{
		Tier:       l.settings.Tier,
		TokensUsed: l.settings.DailyTokenUsage,
		TokenLimit: l.settings.DailyTokenLimit,
		ImagesUsed: l.settings.DailyImageCount,
		ImageLimit: l.settings.DailyImageLimit,
		Day:        l.settings.UsageDay,
	}
}

// TokenEstimate returns the estimated token cost of a prompt:
// ceil(len * 0.25), where length is counted in characters.
func TokenEstimate(text string) int {
	return estimateChars(len([]rune(text)))
}

// =============================================================================
// INTERNAL
// =============================================================================

func estimateChars(n int) int {
	return int(math.Ceil(float64(n) * promptCostRatio))
}

func (l *Ledger) debitTokens(cost int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	l.settings.DailyTokenUsage += cost
}

// rolloverLocked zeroes both counters when the UTC day has changed since
// they were last touched. Caller must hold the lock.
func (l *Ledger) rolloverLocked() {
	day := l.now().UTC().Format(usageDayFormat)
	if l.settings.UsageDay == day {
		return
	}
	l.settings.UsageDay = day
	l.settings.DailyTokenUsage = 0
	l.settings.DailyImageCount = 0
}
