// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("blue")
}

// =============================================================================
// CODE BLOCK TESTS
// =============================================================================

func TestParseCodeBlocksPreservesProse(t *testing.T) {
	in := "before\n```go\nfmt.Println(\"hi\")\n```\nafter"
	out := ParseCodeBlocks(in, 80)

	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("prose around the fence should survive")
	}
	if strings.Contains(out, "```") {
		t.Error("fences should be consumed")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	in := "```python\nprint(1)"
	out := ParseCodeBlocks(in, 80)
	if !strings.Contains(out, "print") {
		t.Error("unclosed fence should still render its code")
	}
}

func TestHighlightCodeFallsBackToPlain(t *testing.T) {
	code := "no such language here"
	out := highlightCode(code, "not-a-language")
	if out == "" {
		t.Error("highlighting should never return empty output")
	}
}

// =============================================================================
// SESSION LIST TESTS
// =============================================================================

func sessions(titles ...string) []*model.ChatSession {
	var out []*model.ChatSession
	for _, title := range titles {
		s := model.NewChatSession()
		s.Title = title
		s.UpdatedAt = time.Now()
		out = append(out, s)
	}
	return out
}

func TestSessionListCursorClamps(t *testing.T) {
	l := NewSessionList(sessions("a", "b"), 80)

	l.MoveUp()
	if l.Cursor != 0 {
		t.Errorf("Cursor = %d after MoveUp at top", l.Cursor)
	}
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	if l.Cursor != 1 {
		t.Errorf("Cursor = %d, want clamped to 1", l.Cursor)
	}
	if l.Selected() == nil || l.Selected().Title != "b" {
		t.Error("Selected should track the cursor")
	}
}

func TestSessionListEmpty(t *testing.T) {
	l := NewSessionList(nil, 80)
	if l.Selected() != nil {
		t.Error("Selected on empty list should be nil")
	}
	out := l.Render(testTheme())
	if !strings.Contains(out, "No chat history") {
		t.Errorf("empty list render = %q", out)
	}
}

func TestSessionListRenderShowsTitles(t *testing.T) {
	l := NewSessionList(sessions("first chat", "second chat"), 80)
	out := l.Render(testTheme())
	if !strings.Contains(out, "first chat") || !strings.Contains(out, "second chat") {
		t.Error("render should include session titles")
	}
}

// =============================================================================
// USAGE METER TESTS
// =============================================================================

func TestUsageMeterHiddenForUnlimitedTiers(t *testing.T) {
	m := UsageMeter{Usage: quota.Usage{Tier: model.TierPro}}
	if m.Render(testTheme()) != "" {
		t.Error("Pro tier should not show a usage meter")
	}
}

func TestUsageMeterShowsCounts(t *testing.T) {
	m := UsageMeter{Usage: quota.Usage{
		Tier:       model.TierFree,
		TokensUsed: 500,
		TokenLimit: 2000,
		ImagesUsed: 2,
		ImageLimit: 5,
	}}
	out := m.Render(testTheme())
	if !strings.Contains(out, "500/2000") {
		t.Errorf("meter should show token counts, got %q", out)
	}
	if !strings.Contains(out, "2/5") {
		t.Errorf("meter should show image counts, got %q", out)
	}
}

func TestUsageMeterLimitReached(t *testing.T) {
	m := UsageMeter{Usage: quota.Usage{
		Tier:       model.TierFree,
		TokensUsed: 2000,
		TokenLimit: 2000,
		ImageLimit: 5,
	}}
	if !strings.Contains(m.Render(testTheme()), "limit reached") {
		t.Error("exhausted meter should call out the limit")
	}
}

func TestBarClamps(t *testing.T) {
	if got := bar(9999, 100); strings.Contains(got, "░") {
		t.Error("overfull bar should be fully filled")
	}
	if got := bar(0, 100); strings.Contains(got, "█") {
		t.Error("empty bar should have no filled cells")
	}
}

// =============================================================================
// UPSELL BANNER TESTS
// =============================================================================

func TestUpsellBannerVisibility(t *testing.T) {
	if (UpsellBanner{}).Render(testTheme()) != "" {
		t.Error("hidden banner should render nothing")
	}
	out := UpsellBanner{Visible: true}.Render(testTheme())
	if !strings.Contains(out, "Upgrade to Pro") {
		t.Errorf("banner = %q", out)
	}
}
