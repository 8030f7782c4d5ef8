// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/prismchat/prism/internal/genai"
	"github.com/prismchat/prism/internal/imagine"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/session"
)

// =============================================================================
// FIXED USER-VISIBLE STRINGS
// =============================================================================

const (
	tokenLimitWarning = "You've reached today's free message limit. Upgrade to Pro for unlimited chats."
	imageLimitWarning = "You've reached today's free image limit. Upgrade to Pro for unlimited images."

	// generationErrorText replaces the placeholder on any generation
	// failure. All error kinds get the same text; retry is manual.
	generationErrorText = "Sorry, I ran into a connection error. Please try again."
)

// imageDelay is the fixed simulated latency of image generation.
const imageDelay = 1000 * time.Millisecond

// =============================================================================
// GENERATOR BOUNDARY
// =============================================================================

// Generator produces a reply for a conversation prefix, optionally
// delivering cumulative partials. *genai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, history []*model.Message, modelID string, onPartial genai.OnPartial) (string, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the send-message state machine. One instance per
// running client; it is the single logical writer for the conversation,
// the ledger, and the generating flag.
//
// The UI disables its input (repurposing it as "stop") while a send is in
// flight, but single-flight is not enforced here: programmatic callers
// can race, so all conversation mutation goes through snapshot updates.
type Controller struct {
	mu       sync.Mutex
	conv     *model.Conversation
	sessions *session.Manager
	ledger   *quota.Ledger
	gen      Generator
	settings *model.UserSettings

	generating bool

	onUpsell            func()
	onGeneratingChanged func(bool)

	// Swappable for tests.
	delay func(time.Duration)
	seed  func() int
}

// New creates a controller. The settings struct is shared with the
// ledger, which owns its usage counters.
func New(conv *model.Conversation, sessions *session.Manager, ledger *quota.Ledger, gen Generator, settings *model.UserSettings) *Controller {
	return &Controller{
		conv:     conv,
		sessions: sessions,
		ledger:   ledger,
		gen:      gen,
		settings: settings,
		delay:    time.Sleep,
		seed:     func() int { return rand.Intn(1_000_000) },
	}
}

// SetOnUpsell registers the callback fired when a rejected send should
// open the upgrade prompt.
func (c *Controller) SetOnUpsell(fn func()) {
	c.mu.Lock()
	c.onUpsell = fn
	c.mu.Unlock()
}

// SetOnGeneratingChanged registers the callback fired when the global
// generating flag flips.
func (c *Controller) SetOnGeneratingChanged(fn func(bool)) {
	c.mu.Lock()
	c.onGeneratingChanged = fn
	c.mu.Unlock()
}

// IsGenerating reports whether a send is in flight.
func (c *Controller) IsGenerating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// Stop clears the generating flag so the UI becomes interactive again.
// It does NOT abort the in-flight generation call: the underlying request
// may still complete and its partials may still land in the conversation.
func (c *Controller) Stop() {
	c.setGenerating(false)
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one full turn of the state machine. It blocks until the turn
// completes; callers drive it from their own goroutine or command. All
// failures degrade to a visible chat message - nothing is returned.
func (c *Controller) Send(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	// A send is an image request iff it starts with the literal prefix.
	isImage := strings.HasPrefix(text, imagine.Prefix)
	kind := quota.KindToken
	if isImage {
		kind = quota.KindImage
	}

	if !c.ledger.Check(kind) {
		// Rejected: a fixed warning, the upgrade prompt, and nothing
		// else - the user's message is never recorded.
		c.conv.AddModelMessage(warningFor(kind))
		c.fireUpsell()
		return
	}

	c.ensureSession()
	c.conv.AddUserMessage(text)
	c.setGenerating(true)

	// The prompt estimate is pre-paid on acceptance and not refunded if
	// the generation later fails.
	c.ledger.DebitPrompt(text)
	c.sessions.SyncSettings(c.settings)

	if isImage {
		c.sendImage(text)
	} else {
		c.sendText(ctx)
	}
}

// warningFor returns the fixed rejection text for a kind.
func warningFor(kind quota.Kind) string {
	if kind == quota.KindImage {
		return imageLimitWarning
	}
	return tokenLimitWarning
}

// =============================================================================
// IMAGE BRANCH
// =============================================================================

// sendImage simulates image generation: fixed delay, synthesized URL,
// markdown image message. No failure path exists on this branch.
func (c *Controller) sendImage(text string) {
	c.delay(imageDelay)

	prompt := strings.TrimSpace(strings.TrimPrefix(text, imagine.Prefix))
	url := imagine.URL(prompt, imagine.DefaultWidth, imagine.DefaultHeight, c.seed())
	c.conv.AddModelMessage(imagine.Markdown(url))

	c.ledger.DebitImage()
	c.sessions.SyncSettings(c.settings)
	c.setGenerating(false)
}

// =============================================================================
// TEXT BRANCH
// =============================================================================

// sendText streams a reply into a placeholder message. Each partial
// REPLACES the placeholder text with the cumulative response; on failure
// the placeholder becomes a fixed error message instead.
func (c *Controller) sendText(ctx context.Context) {
	history := c.conv.Snapshot()
	placeholder := c.conv.AddModelPlaceholder()

	final, err := c.gen.Generate(ctx, history, c.settings.CurrentModel, func(cumulative string) {
		c.conv.ApplyPartial(placeholder.ID, cumulative)
	})
	if err != nil {
		log.Printf("controller: generation failed: %v", err)
		c.conv.FinalizeMessage(placeholder.ID, generationErrorText)
	} else {
		c.conv.FinalizeMessage(placeholder.ID, final)
		// The flat reply charge applies only to successful text turns,
		// regardless of the actual reply length.
		c.ledger.DebitReply()
		c.sessions.SyncSettings(c.settings)
	}

	c.setGenerating(false)
}

// =============================================================================
// INTERNAL
// =============================================================================

// ensureSession guarantees a current session exists before the first
// message lands.
func (c *Controller) ensureSession() {
	if c.sessions.Current() == nil {
		c.sessions.Create()
	}
}

func (c *Controller) setGenerating(v bool) {
	c.mu.Lock()
	changed := c.generating != v
	c.generating = v
	fn := c.onGeneratingChanged
	c.mu.Unlock()

	if changed && fn != nil {
		fn(v)
	}
}

func (c *Controller) fireUpsell() {
	c.mu.Lock()
	fn := c.onUpsell
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
