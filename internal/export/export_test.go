// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell-health/carewell-tui/internal/model"
)

func sampleTurns() []model.ChatTurn {
	return []model.ChatTurn{
		model.NewChatTurn("I feel tired today", "I hear you.",
			&model.Sentiment{Label: "negative", Score: 82},
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		model.NewChatTurn("thanks", "Any time.", nil, time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)),
	}
}

func TestMarkdown_RendersTurnsInOrder(t *testing.T) {
	content, err := Markdown{}.Export(sampleTurns())
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "**You:** I feel tired today")
	assert.Contains(t, text, "**Assistant:** I hear you.")
	assert.Contains(t, text, "Sentiment: negative (82%)")
	assert.Less(t, strings.Index(text, "I feel tired today"), strings.Index(text, "thanks"),
		"turns render oldest first")
}

func TestMarkdown_EmptyTranscriptErrors(t *testing.T) {
	_, err := Markdown{}.Export(nil)
	assert.Error(t, err)
}

func TestJSON_RoundTrips(t *testing.T) {
	turns := sampleTurns()
	content, err := JSON{}.Export(turns)
	require.NoError(t, err)

	var doc jsonDocument
	require.NoError(t, json.Unmarshal(content, &doc))
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "I feel tired today", doc.Turns[0].UserText)
	require.NotNil(t, doc.Turns[0].Sentiment)
	assert.InDelta(t, 82, doc.Turns[0].Sentiment.Score, 0.001)
}

func TestToFile_WritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := ToFile(sampleTurns(), Markdown{}, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".md"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Carewell conversation")
}
