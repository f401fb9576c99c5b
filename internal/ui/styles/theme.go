// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the lipgloss color theme for the carewell TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme color palette.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#60a5fa"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
)

// Shared styles.
var (
	// Title renders view headings.
	Title = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// UserBubble renders the user side of a chat turn.
	UserBubble = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}).
			Background(lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#1e40af"}).
			Padding(0, 1)

	// AIBubble renders the assistant side of a chat turn.
	AIBubble = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#e5e7eb"}).
			Background(lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}).
			Padding(0, 1)

	// Meta renders timestamps and secondary annotations.
	Meta = lipgloss.NewStyle().Foreground(ColorMuted)

	// ErrorText renders inline error messages.
	ErrorText = lipgloss.NewStyle().Foreground(ColorError)

	// SuccessText renders inline confirmations.
	SuccessText = lipgloss.NewStyle().Foreground(ColorSuccess)

	// Label renders form field labels.
	Label = lipgloss.NewStyle().Bold(true)

	// Help renders key-binding hints at the bottom of a view.
	Help = lipgloss.NewStyle().Foreground(ColorMuted)

	// Panel frames a boxed section.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
)

// SentimentStyle returns the style for a sentiment label: positive renders
// green, negative red, neutral amber, anything else muted.
func SentimentStyle(label string) lipgloss.Style {
	switch strings.ToLower(label) {
	case "positive":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	case "negative":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	case "neutral":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	default:
		return Meta
	}
}
