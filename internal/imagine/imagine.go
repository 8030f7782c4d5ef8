// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package imagine synthesizes image URLs for simulated image generation.
//
// No image is ever generated locally: the controller builds a URL from the
// prompt and a seed, and the renderer fetches it passively when the
// markdown image reference is displayed.
package imagine

import (
	"net/url"
	"strconv"
)

// Prefix is the literal command prefix that classifies a send as an image
// request.
const Prefix = "/imagine"

// Default image dimensions.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// baseURL is the public image synthesis endpoint.
const baseURL = "https://image.pollinations.ai/prompt/"

// URL builds a fetchable image URL for the given prompt and seed. Pure
// function; the same inputs always produce the same URL.
func URL(prompt string, width, height, seed int) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("seed", strconv.Itoa(seed))
	q.Set("nologo", "true")
	return baseURL + url.PathEscape(prompt) + "?" + q.Encode()
}

// Markdown wraps an image URL in a markdown image reference, the shape the
// chat renderer expects for model image messages.
func Markdown(imageURL string) string {
	return "![Image](" + imageURL + ")"
}
