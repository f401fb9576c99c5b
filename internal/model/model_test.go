// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

// =============================================================================
// CHAT TURN TESTS
// =============================================================================

func TestNewChatTurn(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	turn := NewChatTurn("  I feel tired today  ", "I hear you.", &Sentiment{Label: "negative", Score: 82}, at)

	if turn.UserText != "I feel tired today" {
		t.Errorf("UserText = %q, want trimmed text", turn.UserText)
	}
	if turn.AIText != "I hear you." {
		t.Errorf("AIText = %q", turn.AIText)
	}
	if turn.Sentiment == nil || turn.Sentiment.Label != "negative" {
		t.Errorf("Sentiment = %+v, want negative", turn.Sentiment)
	}
	if !turn.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", turn.CreatedAt, at)
	}
	if turn.ID == "" {
		t.Error("ID should be generated")
	}
}

func TestNewChatTurn_DefaultsTimestamp(t *testing.T) {
	before := time.Now()
	turn := NewChatTurn("hello", "hi", nil, time.Time{})
	if turn.CreatedAt.Before(before) {
		t.Errorf("zero timestamp should default to now, got %v", turn.CreatedAt)
	}
}

func TestSentiment_DisplayLabel(t *testing.T) {
	if got := (Sentiment{}).DisplayLabel(); got != "N/A" {
		t.Errorf("DisplayLabel = %q, want N/A", got)
	}
	if got := (Sentiment{Label: "positive"}).DisplayLabel(); got != "positive" {
		t.Errorf("DisplayLabel = %q", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	var tr Transcript
	tr.Append(NewChatTurn("first", "a", nil, time.Time{}))
	tr.Append(NewChatTurn("second", "b", nil, time.Time{}))

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	if tr.Turns()[0].UserText != "first" || tr.Turns()[1].UserText != "second" {
		t.Error("turns out of insertion order")
	}

	last, ok := tr.Last()
	if !ok || last.UserText != "second" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestTranscript_ReplaceAll(t *testing.T) {
	var tr Transcript
	tr.Append(NewChatTurn("live", "x", nil, time.Time{}))

	hydrated := []ChatTurn{
		NewChatTurn("oldest", "1", nil, time.Time{}),
		NewChatTurn("newest", "2", nil, time.Time{}),
	}
	tr.ReplaceAll(hydrated)

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	if tr.Turns()[0].UserText != "oldest" {
		t.Error("ReplaceAll must preserve server order")
	}

	// Mutating the input slice must not affect the transcript.
	hydrated[0].UserText = "mutated"
	if tr.Turns()[0].UserText != "oldest" {
		t.Error("ReplaceAll must copy the input slice")
	}
}

func TestTranscript_Empty(t *testing.T) {
	var tr Transcript
	if !tr.IsEmpty() {
		t.Error("new transcript should be empty")
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last on empty transcript should report false")
	}
}

// =============================================================================
// ADMIN DATASET TESTS
// =============================================================================

func TestAdminDataset_UnacknowledgedAlerts(t *testing.T) {
	d := AdminDataset{
		Alerts: []AlertRecord{
			{ID: 1, Acknowledged: true},
			{ID: 2},
			{ID: 3},
		},
	}
	if got := d.UnacknowledgedAlerts(); got != 2 {
		t.Errorf("UnacknowledgedAlerts = %d, want 2", got)
	}
	if d.IsEmpty() {
		t.Error("dataset with alerts should not be empty")
	}
	if !(AdminDataset{}).IsEmpty() {
		t.Error("zero dataset should be empty")
	}
}
