// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and
// the admin dataset.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carewell-health/carewell-tui/internal/util"
)

// =============================================================================
// SENTIMENT
// =============================================================================

// Sentiment is the server-side sentiment score attached to an AI reply.
// Score is a percentage in [0, 100].
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// DisplayLabel returns a human-readable label, or "N/A" when unset.
func (s Sentiment) DisplayLabel() string {
	if s.Label == "" {
		return "N/A"
	}
	return s.Label
}

// =============================================================================
// CHAT TURN
// =============================================================================

// ChatTurn is one exchange unit: what the user said and what the assistant
// answered. Turns hydrated from the history endpoint carry no sentiment.
type ChatTurn struct {
	ID        string     `json:"id"`
	UserText  string     `json:"user"`
	AIText    string     `json:"ai"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewChatTurn creates a completed turn with a generated ID. The user text is
// trimmed; callers must reject blank submissions before a turn is created.
func NewChatTurn(userText, aiText string, sentiment *Sentiment, createdAt time.Time) ChatTurn {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return ChatTurn{
		ID:        uuid.NewString(),
		UserText:  strings.TrimSpace(userText),
		AIText:    aiText,
		Sentiment: sentiment,
		CreatedAt: createdAt,
	}
}

// Preview returns a one-line preview of the user text for listings.
func (t ChatTurn) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseWhitespace(t.UserText), maxRunes)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered sequence of chat turns shown to the user,
// oldest first. Hydrated history comes first, then turns created during the
// live session in submission order.
type Transcript struct {
	turns []ChatTurn
}

// Append adds a completed turn to the end of the transcript.
func (tr *Transcript) Append(turn ChatTurn) {
	tr.turns = append(tr.turns, turn)
}

// ReplaceAll replaces the transcript with the given turns in the given
// order. Used on history hydration; the server order wins.
func (tr *Transcript) ReplaceAll(turns []ChatTurn) {
	tr.turns = make([]ChatTurn, len(turns))
	copy(tr.turns, turns)
}

// Turns returns the turns in display order. The returned slice must not be
// mutated by callers.
func (tr *Transcript) Turns() []ChatTurn {
	return tr.turns
}

// Len returns the number of turns.
func (tr *Transcript) Len() int {
	return len(tr.turns)
}

// IsEmpty returns true if there are no turns.
func (tr *Transcript) IsEmpty() bool {
	return len(tr.turns) == 0
}

// Last returns the most recent turn, or a zero turn and false if empty.
func (tr *Transcript) Last() (ChatTurn, bool) {
	if len(tr.turns) == 0 {
		return ChatTurn{}, false
	}
	return tr.turns[len(tr.turns)-1], true
}
