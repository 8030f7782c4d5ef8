// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package quota

import (
	"testing"
	"time"

	"github.com/prismchat/prism/internal/model"
)

func newTestLedger(tier model.Tier) (*Ledger, *model.UserSettings) {
	settings := model.DefaultSettings()
	settings.Tier = tier
	l := NewLedger(settings)
	return l, settings
}

// =============================================================================
// TOKEN ESTIMATE TESTS
// =============================================================================

func TestTokenEstimate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},     // ceil(0.25)
		{"abcd", 1},  // ceil(1.0)
		{"hello", 2}, // ceil(1.25)
		{"abcdefgh", 2},
	}

	for _, tt := range tests {
		if got := TokenEstimate(tt.text); got != tt.want {
			t.Errorf("TokenEstimate(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

// =============================================================================
// CHECK TESTS
// =============================================================================

func TestCheckFreeTierUnderLimit(t *testing.T) {
	l, _ := newTestLedger(model.TierFree)

	if !l.Check(KindToken) {
		t.Error("fresh Free user should be allowed to send")
	}
	if !l.Check(KindImage) {
		t.Error("fresh Free user should be allowed to imagine")
	}
}

func TestCheckFreeTierTokenLimit(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)
	settings.DailyTokenUsage = settings.DailyTokenLimit
	settings.UsageDay = time.Now().UTC().Format("2006-01-02")

	if l.Check(KindToken) {
		t.Error("Free user at token limit should be rejected")
	}
	// Image sends are priced separately and still allowed.
	if !l.Check(KindImage) {
		t.Error("token limit should not reject image sends")
	}
	// Check must not mutate counters.
	if settings.DailyTokenUsage != settings.DailyTokenLimit {
		t.Error("Check mutated DailyTokenUsage")
	}
}

func TestCheckFreeTierImageLimit(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)
	settings.DailyImageCount = settings.DailyImageLimit
	settings.UsageDay = time.Now().UTC().Format("2006-01-02")

	if l.Check(KindImage) {
		t.Error("Free user at image limit should be rejected")
	}
	if !l.Check(KindToken) {
		t.Error("image limit should not reject token sends")
	}
}

func TestCheckPaidTiersNeverRejected(t *testing.T) {
	for _, tier := range []model.Tier{model.TierPro, model.TierUltra} {
		l, settings := newTestLedger(tier)
		settings.DailyTokenUsage = 1_000_000
		settings.DailyImageCount = 1_000
		settings.UsageDay = time.Now().UTC().Format("2006-01-02")

		if !l.Check(KindToken) || !l.Check(KindImage) {
			t.Errorf("%s tier should never be rejected", tier)
		}
	}
}

// =============================================================================
// DEBIT TESTS
// =============================================================================

func TestDebitPromptAndReply(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)

	// "hello" costs ceil(5*0.25) = 2 up front, then a flat 13 on success.
	if got := l.DebitPrompt("hello"); got != 2 {
		t.Errorf("DebitPrompt = %d, want 2", got)
	}
	if got := l.DebitReply(); got != 13 {
		t.Errorf("DebitReply = %d, want 13", got)
	}
	if settings.DailyTokenUsage != 15 {
		t.Errorf("DailyTokenUsage = %d, want 15", settings.DailyTokenUsage)
	}
}

func TestDebitImage(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)

	l.DebitImage()
	if settings.DailyImageCount != 1 {
		t.Errorf("DailyImageCount = %d, want 1", settings.DailyImageCount)
	}
	// Image generation never debits tokens.
	if settings.DailyTokenUsage != 0 {
		t.Errorf("DailyTokenUsage = %d, want 0", settings.DailyTokenUsage)
	}
}

// =============================================================================
// DAY ROLLOVER TESTS
// =============================================================================

func TestRolloverResetsCounters(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)

	day := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	l.now = func() time.Time { return day }

	settings.DailyTokenUsage = settings.DailyTokenLimit
	settings.DailyImageCount = settings.DailyImageLimit
	settings.UsageDay = day.Format("2006-01-02")

	if l.Check(KindToken) {
		t.Fatal("should be rejected before rollover")
	}

	// Cross UTC midnight.
	l.now = func() time.Time { return day.Add(time.Hour) }

	if !l.Check(KindToken) {
		t.Error("should be allowed after UTC day rollover")
	}
	snap := l.Snapshot()
	if snap.TokensUsed != 0 || snap.ImagesUsed != 0 {
		t.Errorf("counters after rollover = %d tokens / %d images, want 0/0",
			snap.TokensUsed, snap.ImagesUsed)
	}
	if snap.Day != "2025-03-02" {
		t.Errorf("UsageDay = %q, want 2025-03-02", snap.Day)
	}
}

func TestCountersMonotonicWithinDay(t *testing.T) {
	l, settings := newTestLedger(model.TierFree)

	var last int
	for i := 0; i < 10; i++ {
		l.DebitPrompt("some prompt text")
		if settings.DailyTokenUsage < last {
			t.Fatal("DailyTokenUsage decreased within a day")
		}
		last = settings.DailyTokenUsage
	}
}
