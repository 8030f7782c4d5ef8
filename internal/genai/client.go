// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the base URL for the generative-language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTimeout bounds non-streaming requests. Streaming requests
	// carry no timeout and are controlled via context.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// Client-side pacing defaults: generous enough to never throttle
	// interactive use, present to bound programmatic callers.
	defaultRateLimit = rate.Limit(2) // requests per second
	defaultRateBurst = 4
)

// sharedStreamingClient is used for streaming requests. Connection pooling
// reduces TCP handshake overhead; no Timeout because streams are
// context-controlled.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("API_KEY not configured")

// =============================================================================
// CLIENT
// =============================================================================

// OnPartial receives the cumulative response text after each streamed
// fragment. Each call REPLACES the previous value; it is never a delta.
type OnPartial func(cumulative string)

// Client communicates with the generative-language API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	classifier Classifier

	// systemInstruction is prepended to every request when non-empty.
	systemInstruction string
}

// NewClient creates a client with the given API key. An empty key yields a
// usable client whose Generate calls fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: sharedStreamingClient,
		limiter:    rate.NewLimiter(defaultRateLimit, defaultRateBurst),
		classifier: DefaultClassifier(),
	}
}

// WithBaseURL sets a custom base URL (primarily for tests and proxies).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLimiter sets a custom request pacing limiter.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// WithClassifier sets a custom error classifier.
func (c *Client) WithClassifier(cl Classifier) *Client {
	c.classifier = cl
	return c
}

// WithSystemInstruction sets the system instruction sent with every
// request. Empty disables it.
func (c *Client) WithSystemInstruction(instruction string) *Client {
	c.systemInstruction = instruction
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate streams a reply for the given history and returns the final
// text. onPartial (optional) is invoked with the cumulative text after
// each fragment. All failures are returned as *GenerationError.
func (c *Client) Generate(ctx context.Context, history []*model.Message, modelID string, onPartial OnPartial) (string, error) {
	if !c.IsConfigured() {
		return "", c.classifier.Wrap(ErrNotConfigured)
	}
	if modelID == "" {
		modelID = model.DefaultModelID
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", c.classifier.Wrap(err)
	}

	reqBody := generateRequest{Contents: ToContents(history)}
	if c.systemInstruction != "" {
		reqBody.SystemInstruction = &Content{Parts: []Part{{Text: c.systemInstruction}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", c.classifier.Wrap(fmt.Errorf("encoding request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", c.classifier.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failures carry "network" phrasing for the
		// classifier.
		return "", c.classifier.Wrap(fmt.Errorf("network error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.classifier.Wrap(c.statusError(resp))
	}

	final, err := c.processStream(ctx, resp.Body, onPartial)
	if err != nil {
		return "", c.classifier.Wrap(err)
	}
	return final, nil
}

// statusError turns a non-200 response into an error that keeps the HTTP
// status and the provider's message visible to the classifier.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
