// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/carewell-health/carewell-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// Markdown exports the transcript as a readable Markdown document.
type Markdown struct{}

// FileExtension implements Exporter.
func (Markdown) FileExtension() string { return ".md" }

// Export implements Exporter.
func (Markdown) Export(turns []model.ChatTurn) ([]byte, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("transcript is empty")
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("title: Carewell conversation\n")
	sb.WriteString(fmt.Sprintf("turns: %d\n", len(turns)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("---\n\n")

	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		if !turn.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s\n\n", turn.CreatedAt.Format("Jan 2, 2006 15:04")))
		}
		sb.WriteString("**You:** ")
		sb.WriteString(turn.UserText)
		sb.WriteString("\n\n**Assistant:** ")
		sb.WriteString(turn.AIText)
		sb.WriteString("\n")
		if turn.Sentiment != nil {
			sb.WriteString(fmt.Sprintf("\n*Sentiment: %s (%.0f%%)*\n",
				turn.Sentiment.DisplayLabel(), turn.Sentiment.Score))
		}
	}
	return []byte(sb.String()), nil
}
