// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation view and its send/hydrate state
// machine.
//
// This file defines the Bubble Tea messages the engine consumes. Results
// carry a generation stamp: a completion that arrives after the view was
// remounted (or torn down) is stale and must be dropped rather than applied
// to state it no longer belongs to.
package chat

import (
	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/model"
)

// HistoryLoadedMsg delivers the outcome of the mount-time hydration.
type HistoryLoadedMsg struct {
	Gen   int
	Turns []model.ChatTurn
	Err   error
}

// SendResultMsg delivers the outcome of one message send. Attempted is the
// text that was submitted, kept so a failure can restore the input field.
type SendResultMsg struct {
	Gen       int
	Attempted string
	Reply     api.ChatReply
	Err       error
}
