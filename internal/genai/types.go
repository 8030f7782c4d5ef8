// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"github.com/prismchat/prism/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Part is a single text part of a content turn. The provider supports
// multi-part turns; this client always sends exactly one text part per
// message.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of the conversation in the provider's shape.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// generateRequest is the request body for generateContent and
// streamGenerateContent.
type generateRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
}

// streamChunk is a single streamed response fragment.
type streamChunk struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
			Role  string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Text returns the concatenated part text of the first candidate.
func (c *streamChunk) Text() string {
	if len(c.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range c.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// apiErrorResponse is the provider's error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// =============================================================================
// HISTORY CONVERSION
// =============================================================================

// ToContents converts conversation history to the provider's shape: role
// mapped to user/model, a single text part per message. Empty messages
// (the streaming placeholder) are skipped.
func ToContents(history []*model.Message) []Content {
	contents := make([]Content, 0, len(history))
	for _, m := range history {
		if m.IsEmpty() {
			continue
		}
		contents = append(contents, Content{
			Role:  m.Role.String(),
			Parts: []Part{{Text: m.Text}},
		})
	}
	return contents
}
