// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"fmt"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind is the normalized category of a generation failure.
type ErrorKind string

const (
	ErrorAuth      ErrorKind = "auth"
	ErrorQuota     ErrorKind = "quota"
	ErrorRateLimit ErrorKind = "rate_limit"
	ErrorNetwork   ErrorKind = "network"
	ErrorUnknown   ErrorKind = "unknown"
)

// GenerationError wraps a provider failure with its classified kind.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches any GenerationError of the same kind.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Rule maps an error-message predicate to a kind. Rules are evaluated in
// order; the first match wins.
type Rule struct {
	Match func(msg string) bool
	Kind  ErrorKind
}

// Classifier is an ordered list of classification rules.
//
// Classification is best-effort substring matching against known provider
// markers and may misclassify; callers should treat all kinds uniformly
// for display unless building provider-specific UX.
type Classifier []Rule

// Classify returns the kind of the first matching rule, or ErrorUnknown.
// Matching is case-insensitive.
func (c Classifier) Classify(err error) ErrorKind {
	if err == nil {
		return ErrorUnknown
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range c {
		if rule.Match(msg) {
			return rule.Kind
		}
	}
	return ErrorUnknown
}

// Wrap classifies err and wraps it in a GenerationError. A nil err returns
// nil; an already-classified error passes through unchanged.
func (c Classifier) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*GenerationError); ok {
		return err
	}
	return &GenerationError{Kind: c.Classify(err), Err: err}
}

// DefaultClassifier returns the standard marker rules, in match order:
// auth, quota, rate_limit, network.
func DefaultClassifier() Classifier {
	return Classifier{
		{Kind: ErrorAuth, Match: containsAny("api_key", "401", "403")},
		{Kind: ErrorQuota, Match: containsAny("quota", "429")},
		{Kind: ErrorRateLimit, Match: containsAny("rate limit")},
		{Kind: ErrorNetwork, Match: containsAny("fetch", "network")},
	}
}

// containsAny builds a predicate matching any of the given lowercase
// markers.
func containsAny(markers ...string) func(string) bool {
	return func(msg string) bool {
		for _, marker := range markers {
			if strings.Contains(msg, marker) {
				return true
			}
		}
		return false
	}
}
