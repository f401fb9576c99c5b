// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"fmt"
	"strings"

	"github.com/carewell-health/carewell-tui/internal/ui/styles"
	"github.com/carewell-health/carewell-tui/internal/util"
)

// View renders the dashboard for the current lock state.
func (c *Controller) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Admin dashboard"))
	b.WriteString("\n\n")

	switch c.state {
	case Locked, Unlocking:
		b.WriteString(c.renderPrompt())
	default:
		b.WriteString(c.renderDashboard())
	}
	return b.String()
}

func (c *Controller) renderPrompt() string {
	var b strings.Builder
	b.WriteString(styles.Label.Render("Enter the admin key to unlock"))
	b.WriteString("\n\n")
	b.WriteString(c.keyInput.View())
	b.WriteString("\n")

	if c.state == Unlocking {
		b.WriteString(styles.Meta.Render("Checking key..."))
		b.WriteString("\n")
	}
	if c.lastErr != "" {
		b.WriteString(styles.ErrorText.Render(c.lastErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("enter: unlock"))
	return b.String()
}

func (c *Controller) renderDashboard() string {
	width := c.width
	if width <= 0 {
		width = 100
	}

	var b strings.Builder
	b.WriteString(styles.SuccessText.Render(fmt.Sprintf(
		"Unlocked · %d chats · %d alerts (%d open)",
		len(c.dataset.Chats), len(c.dataset.Alerts), c.dataset.UnacknowledgedAlerts())))
	b.WriteString("\n\n")

	if c.lastErr != "" {
		b.WriteString(styles.ErrorText.Render(c.lastErr))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.Label.Render("Recent chats"))
	b.WriteString("\n")
	if len(c.dataset.Chats) == 0 {
		b.WriteString(styles.Meta.Render("  none"))
		b.WriteString("\n")
	}
	for _, chat := range c.dataset.Chats {
		line := fmt.Sprintf("  #%d u%d  %s", chat.ID, chat.UserID,
			util.CollapseWhitespace(chat.UserMessage))
		b.WriteString(util.TruncateWidth(line, width-20))
		if chat.SentimentLabel != "" {
			b.WriteString("  ")
			b.WriteString(styles.SentimentStyle(chat.SentimentLabel).Render(
				fmt.Sprintf("%s %.0f%%", chat.SentimentLabel, chat.SentimentScore)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Alerts"))
	b.WriteString("\n")
	if len(c.dataset.Alerts) == 0 {
		b.WriteString(styles.Meta.Render("  none"))
		b.WriteString("\n")
	}
	for _, alert := range c.dataset.Alerts {
		marker := "!"
		if alert.Acknowledged {
			marker = "·"
		}
		line := fmt.Sprintf("  %s [%s] u%d  %s", marker, alert.AlertType, alert.UserID,
			util.CollapseWhitespace(alert.Message))
		if alert.Acknowledged {
			b.WriteString(styles.Meta.Render(util.TruncateWidth(line, width-4)))
		} else {
			b.WriteString(styles.ErrorText.Render(util.TruncateWidth(line, width-4)))
		}
		b.WriteString("\n")
	}

	if len(c.templates) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Meta.Render(fmt.Sprintf("%d response templates loaded", len(c.templates))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("l: lock  s: save key  x: clear key"))
	return b.String()
}
