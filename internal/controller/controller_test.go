// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prismchat/prism/internal/genai"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/session"
)

// =============================================================================
// FAKE GENERATOR
// =============================================================================

// fakeGenerator scripts the generation boundary. If partials is set, each
// entry is delivered as a cumulative partial before the final result.
type fakeGenerator struct {
	mu       sync.Mutex
	partials []string
	final    string
	err      error
	calls    int

	// block, when non-nil, is closed by the test to release a hanging
	// generation.
	block chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, history []*model.Message, modelID string, onPartial genai.OnPartial) (string, error) {
	g.mu.Lock()
	g.calls++
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	for _, p := range g.partials {
		if onPartial != nil {
			onPartial(p)
		}
	}
	return g.final, g.err
}

// =============================================================================
// TEST HARNESS
// =============================================================================

type harness struct {
	ctrl     *Controller
	conv     *model.Conversation
	settings *model.UserSettings
	gen      *fakeGenerator
	mgr      *session.Manager

	mu      sync.Mutex
	upsells int
	delays  []time.Duration
}

func newHarness(gen *fakeGenerator) *harness {
	h := &harness{gen: gen}
	h.settings = model.DefaultSettings()
	h.settings.UsageDay = time.Now().UTC().Format("2006-01-02")
	h.conv = model.NewConversation()
	h.mgr = session.NewManager(model.GuestUserID, nil, h.conv)
	ledger := quota.NewLedger(h.settings)

	h.ctrl = New(h.conv, h.mgr, ledger, gen, h.settings)
	h.ctrl.delay = func(d time.Duration) {
		h.mu.Lock()
		h.delays = append(h.delays, d)
		h.mu.Unlock()
	}
	h.ctrl.seed = func() int { return 42 }
	h.ctrl.SetOnUpsell(func() {
		h.mu.Lock()
		h.upsells++
		h.mu.Unlock()
	})
	return h
}

func (h *harness) upsellCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.upsells
}

// =============================================================================
// QUOTA REJECTION TESTS
// =============================================================================

func TestRejectedTokenSend(t *testing.T) {
	h := newHarness(&fakeGenerator{final: "never"})
	h.settings.DailyTokenUsage = h.settings.DailyTokenLimit

	h.ctrl.Send(context.Background(), "hello")

	msgs := h.conv.Snapshot()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want only the warning", len(msgs))
	}
	// No user message is ever recorded for a rejected attempt.
	if msgs[0].Role != model.RoleModel {
		t.Error("warning should be a model message")
	}
	if msgs[0].Text != tokenLimitWarning {
		t.Errorf("warning text = %q", msgs[0].Text)
	}
	if h.upsellCount() != 1 {
		t.Errorf("upsells = %d, want 1", h.upsellCount())
	}
	if h.settings.DailyTokenUsage != h.settings.DailyTokenLimit {
		t.Error("rejection must not debit tokens")
	}
	if h.gen.calls != 0 {
		t.Error("generator must not be called on rejection")
	}
	if h.ctrl.IsGenerating() {
		t.Error("generating flag must stay clear on rejection")
	}
}

func TestRejectedImageSend(t *testing.T) {
	h := newHarness(&fakeGenerator{})
	h.settings.DailyImageCount = h.settings.DailyImageLimit

	h.ctrl.Send(context.Background(), "/imagine a red fox")

	msgs := h.conv.Snapshot()
	if len(msgs) != 1 || msgs[0].Text != imageLimitWarning {
		t.Fatalf("expected only the image warning, got %d messages", len(msgs))
	}
	if h.upsellCount() != 1 {
		t.Errorf("upsells = %d, want 1", h.upsellCount())
	}
	if h.settings.DailyImageCount != h.settings.DailyImageLimit {
		t.Error("rejection must not debit images")
	}
}

// =============================================================================
// TEXT BRANCH TESTS
// =============================================================================

func TestSuccessfulTextSendDebits(t *testing.T) {
	h := newHarness(&fakeGenerator{
		partials: []string{"Hi", "Hi there"},
		final:    "Hi there!",
	})

	h.ctrl.Send(context.Background(), "hello")

	// "hello" debits ceil(5*0.25)=2 on acceptance, then +13 on success,
	// regardless of actual reply length.
	if h.settings.DailyTokenUsage != 15 {
		t.Errorf("DailyTokenUsage = %d, want 15", h.settings.DailyTokenUsage)
	}

	msgs := h.conv.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want user + reply", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Text != "hello" {
		t.Error("user message should be recorded first")
	}
	reply := msgs[1]
	if reply.Role != model.RoleModel || reply.Text != "Hi there!" {
		t.Errorf("reply = %q", reply.Text)
	}
	if reply.IsThinking {
		t.Error("reply should not be thinking after finalize")
	}
	if h.ctrl.IsGenerating() {
		t.Error("generating flag should clear on completion")
	}
}

func TestPartialsReplacePlaceholder(t *testing.T) {
	gen := &fakeGenerator{partials: []string{"cumulative text"}, final: "cumulative text"}
	h := newHarness(gen)

	var thinkingSeen bool
	h.conv.AddListener(func(snapshot []*model.Message) {
		for _, m := range snapshot {
			if m.IsThinking {
				thinkingSeen = true
			}
		}
	})

	h.ctrl.Send(context.Background(), "hi")

	if !thinkingSeen {
		t.Error("placeholder should pass through a thinking state")
	}
	last := h.conv.Last()
	if last.Text != "cumulative text" {
		t.Errorf("final text = %q", last.Text)
	}
}

func TestFailedTextSend(t *testing.T) {
	h := newHarness(&fakeGenerator{
		err: &genai.GenerationError{Kind: genai.ErrorNetwork, Err: errors.New("dial timeout")},
	})

	var generatingFlips []bool
	h.ctrl.SetOnGeneratingChanged(func(v bool) {
		generatingFlips = append(generatingFlips, v)
	})

	h.ctrl.Send(context.Background(), "hello")

	msgs := h.conv.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want user + error", len(msgs))
	}
	errMsg := msgs[1]
	if errMsg.Text != generationErrorText {
		t.Errorf("error text = %q, want fixed string", errMsg.Text)
	}
	if errMsg.IsThinking {
		t.Error("thinking flag must clear on failure")
	}

	// Busy flag set then cleared exactly once each.
	if len(generatingFlips) != 2 || !generatingFlips[0] || generatingFlips[1] {
		t.Errorf("generating flips = %v, want [true false]", generatingFlips)
	}

	// The prompt estimate is pre-paid and not refunded; no reply charge.
	if h.settings.DailyTokenUsage != 2 {
		t.Errorf("DailyTokenUsage = %d, want 2 (prepaid only)", h.settings.DailyTokenUsage)
	}
}

// =============================================================================
// IMAGE BRANCH TESTS
// =============================================================================

func TestImagineSend(t *testing.T) {
	h := newHarness(&fakeGenerator{})

	h.ctrl.Send(context.Background(), "/imagine a red fox")

	h.mu.Lock()
	delays := h.delays
	h.mu.Unlock()
	if len(delays) != 1 || delays[0] != 1000*time.Millisecond {
		t.Errorf("delays = %v, want one fixed 1s delay", delays)
	}

	msgs := h.conv.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want user + image", len(msgs))
	}
	img := msgs[1]
	if !strings.HasPrefix(img.Text, "![Image](") || !strings.HasSuffix(img.Text, ")") {
		t.Errorf("image message = %q, want markdown image reference", img.Text)
	}
	if !strings.Contains(img.Text, "a%20red%20fox") {
		t.Errorf("image URL should contain the url-encoded prompt, got %q", img.Text)
	}

	if h.settings.DailyImageCount != 1 {
		t.Errorf("DailyImageCount = %d, want 1", h.settings.DailyImageCount)
	}
	// Image sends debit the prompt estimate but never the reply charge.
	want := quota.TokenEstimate("/imagine a red fox")
	if h.settings.DailyTokenUsage != want {
		t.Errorf("DailyTokenUsage = %d, want %d", h.settings.DailyTokenUsage, want)
	}
	if h.gen.calls != 0 {
		t.Error("image branch must not call the generation client")
	}
	if h.ctrl.IsGenerating() {
		t.Error("generating flag should clear after image completes")
	}
}

// =============================================================================
// STOP TESTS
// =============================================================================

func TestStopClearsFlagWithoutAborting(t *testing.T) {
	gen := &fakeGenerator{final: "late reply", block: make(chan struct{})}
	h := newHarness(gen)

	done := make(chan struct{})
	go func() {
		h.ctrl.Send(context.Background(), "hello")
		close(done)
	}()

	// Wait for the send to be in flight.
	for i := 0; i < 100 && !h.ctrl.IsGenerating(); i++ {
		time.Sleep(time.Millisecond)
	}
	if !h.ctrl.IsGenerating() {
		t.Fatal("send never started")
	}

	h.ctrl.Stop()
	if h.ctrl.IsGenerating() {
		t.Fatal("Stop should clear the generating flag")
	}

	// The underlying call was not aborted: releasing it still delivers
	// the reply.
	close(gen.block)
	<-done

	last := h.conv.Last()
	if last == nil || last.Text != "late reply" {
		t.Error("late completion should still land in the conversation")
	}
}

// =============================================================================
// MISC TESTS
// =============================================================================

func TestEmptySendIgnored(t *testing.T) {
	h := newHarness(&fakeGenerator{})

	h.ctrl.Send(context.Background(), "   ")
	if h.conv.Len() != 0 {
		t.Error("blank input should be ignored")
	}
}

func TestSendCreatesSessionWhenMissing(t *testing.T) {
	h := newHarness(&fakeGenerator{final: "ok"})

	if h.mgr.Current() != nil {
		t.Fatal("expected no current session before first send")
	}
	h.ctrl.Send(context.Background(), "hello")
	if h.mgr.Current() == nil {
		t.Error("send should create a session when none is current")
	}
}
