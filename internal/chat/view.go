// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/carewell-health/carewell-tui/internal/ui/styles"
)

// View renders the chat view: transcript viewport, pending indicator and
// input line.
func (e *Engine) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Chat with your health assistant"))
	b.WriteString("\n\n")
	b.WriteString(e.view.View())
	b.WriteString("\n")

	if e.sending {
		b.WriteString(e.spin.View())
		b.WriteString(styles.Meta.Render(" Typing..."))
		b.WriteString("\n")
	}

	b.WriteString(e.input.View())
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("enter: send  ctrl+e: export"))
	return b.String()
}

// renderTranscript renders all turns oldest-first.
func (e *Engine) renderTranscript() string {
	if e.loadingHistory {
		return styles.Meta.Render("Loading your recent messages...")
	}
	if e.transcript.IsEmpty() {
		return styles.Meta.Render("No messages yet. Start a conversation!")
	}

	var b strings.Builder
	if e.fromCache {
		b.WriteString(styles.Meta.Render("Showing cached messages (server unreachable)"))
		b.WriteString("\n\n")
	}

	width := e.view.Width
	if width <= 0 {
		width = 80
	}

	for i, turn := range e.transcript.Turns() {
		if i > 0 {
			b.WriteString("\n")
		}

		user := styles.UserBubble.MaxWidth(width).Render(turn.UserText)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, user))
		b.WriteString("\n")

		b.WriteString(styles.AIBubble.MaxWidth(width).Render(e.render(turn.AIText)))
		b.WriteString("\n")

		var meta []string
		if turn.Sentiment != nil {
			s := turn.Sentiment
			meta = append(meta, styles.SentimentStyle(s.Label).Render(
				fmt.Sprintf("Sentiment: %s (%.0f%%)", s.DisplayLabel(), s.Score)))
		}
		if !turn.CreatedAt.IsZero() {
			meta = append(meta, styles.Meta.Render(turn.CreatedAt.Format("Jan 2 15:04")))
		}
		if len(meta) > 0 {
			b.WriteString(strings.Join(meta, "  "))
			b.WriteString("\n")
		}
	}
	return b.String()
}
