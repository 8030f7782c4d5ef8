// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// =============================================================================
// SSE READER
// =============================================================================

// MaxLineSize is the maximum allowed size for a single SSE line (64KB).
const MaxLineSize = 64 * 1024

// SSEReader reads server-sent events from a stream.
type SSEReader struct {
	scanner *bufio.Scanner
}

// NewSSEReader creates an SSE reader over r.
func NewSSEReader(r io.Reader) *SSEReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)
	return &SSEReader{scanner: scanner}
}

// ReadData returns the payload of the next data event, or io.EOF when the
// stream ends. Non-data lines (comments, blank separators, event names)
// are skipped.
func (s *SSEReader) ReadData() ([]byte, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		return []byte(data), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	return nil, io.EOF
}

// =============================================================================
// STREAM PROCESSING
// =============================================================================

// processStream consumes the SSE body, accumulating fragment text and
// invoking onPartial with the cumulative text after each fragment.
func (c *Client) processStream(ctx context.Context, body io.Reader, onPartial OnPartial) (string, error) {
	reader := NewSSEReader(body)
	var cumulative strings.Builder

	for {
		select {
		case <-ctx.Done():
			return cumulative.String(), ctx.Err()
		default:
		}

		data, err := reader.ReadData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cumulative.String(), &StreamError{Partial: cumulative.String(), Err: err}
		}

		var chunk streamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Malformed chunks are skipped rather than failing the
			// whole stream.
			continue
		}

		if text := chunk.Text(); text != "" {
			cumulative.WriteString(text)
			if onPartial != nil {
				onPartial(cumulative.String())
			}
		}
	}

	return cumulative.String(), nil
}

// =============================================================================
// STREAM ERROR
// =============================================================================

// StreamError is a mid-stream failure that preserves the partial content
// received before the error.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}
