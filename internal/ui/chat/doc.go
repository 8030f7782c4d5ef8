// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view: the message
// transcript, streaming indicator, input line, usage meter and the
// session history picker.
//
// The view never mutates conversation state directly. All sends,
// stops and session operations go through the controller and session
// manager, whose change callbacks are bridged back into the Bubble
// Tea loop as messages.
package chat
