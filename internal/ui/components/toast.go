// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the carewell TUI.
//
// Toasts are non-blocking corner notifications that auto-dismiss, so a
// failed send or poll never traps the user in a modal dialog.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carewell-health/carewell-tui/internal/ui/styles"
)

// ToastKind classifies a toast notification.
type ToastKind int

const (
	// ToastStatus is an informational toast.
	ToastStatus ToastKind = iota
	// ToastError is an error toast; shown longer so it can be read.
	ToastError
	// ToastSuccess is a confirmation toast.
	ToastSuccess
)

// Auto-dismiss durations per kind.
const (
	statusToastDuration = 4 * time.Second
	errorToastDuration  = 8 * time.Second
)

// ShowToastMsg asks the root model to display a toast. Any view can return
// it from Update.
type ShowToastMsg struct {
	Kind    ToastKind
	Message string
}

// toastExpiredMsg dismisses a toast after its duration elapses.
type toastExpiredMsg struct {
	id int
}

// ShowError is a convenience command for error toasts.
func ShowError(message string) tea.Cmd {
	return func() tea.Msg { return ShowToastMsg{Kind: ToastError, Message: message} }
}

// ShowStatus is a convenience command for status toasts.
func ShowStatus(message string) tea.Cmd {
	return func() tea.Msg { return ShowToastMsg{Kind: ToastStatus, Message: message} }
}

// ShowSuccess is a convenience command for success toasts.
func ShowSuccess(message string) tea.Cmd {
	return func() tea.Msg { return ShowToastMsg{Kind: ToastSuccess, Message: message} }
}

// =============================================================================
// TOASTER
// =============================================================================

// Toaster holds the currently displayed toast. A new toast replaces the
// previous one; expiry of a replaced toast is ignored via the id stamp.
type Toaster struct {
	message string
	kind    ToastKind
	id      int
	visible bool
}

// Update processes toast lifecycle messages.
func (t *Toaster) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ShowToastMsg:
		t.id++
		t.message = msg.Message
		t.kind = msg.Kind
		t.visible = true

		duration := statusToastDuration
		if msg.Kind == ToastError {
			duration = errorToastDuration
		}
		id := t.id
		return tea.Tick(duration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})

	case toastExpiredMsg:
		if msg.id == t.id {
			t.visible = false
		}
	}
	return nil
}

// Visible reports whether a toast is currently shown.
func (t *Toaster) Visible() bool {
	return t.visible
}

// Message returns the current toast text, or "" when hidden.
func (t *Toaster) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}

// Dismiss hides the current toast immediately.
func (t *Toaster) Dismiss() {
	t.visible = false
}

// View renders the toast box, or "" when hidden.
func (t *Toaster) View() string {
	if !t.visible {
		return ""
	}

	var border lipgloss.AdaptiveColor
	var prefix string
	switch t.kind {
	case ToastError:
		border = styles.ColorError
		prefix = "✗ "
	case ToastSuccess:
		border = styles.ColorSuccess
		prefix = "✓ "
	default:
		border = styles.ColorPrimary
		prefix = "• "
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(prefix + t.message)
}
