// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/ui/styles"
)

// minPasswordLen matches the service's own registration rule, enforced
// client-side so a doomed request is never issued.
const minPasswordLen = 6

// registerResultMsg delivers the outcome of one account creation.
type registerResultMsg struct {
	gen   int
	email string
	err   error
}

// Register is the account creation form: email, password, confirmation.
type Register struct {
	auth Authenticator

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
	gen        int
}

// NewRegister creates the registration form.
func NewRegister(auth Authenticator) *Register {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password (min 6 characters)"
	password.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Placeholder = "Confirm password"
	confirm.EchoMode = textinput.EchoPassword

	return &Register{auth: auth, inputs: []textinput.Model{email, password, confirm}}
}

// Mount resets the form for display.
func (v *Register) Mount() tea.Cmd {
	v.gen++
	v.submitting = false
	v.errMsg = ""
	for i := range v.inputs {
		v.inputs[i].Reset()
		v.inputs[i].Blur()
	}
	v.focus = 0
	v.inputs[0].Focus()
	return textinput.Blink
}

// validate applies the client-side rules. A validation failure never
// reaches the transport.
func (v *Register) validate(email, password, confirm string) string {
	switch {
	case email == "":
		return "Email is required"
	case !strings.Contains(email, "@"):
		return "Enter a valid email address"
	case len(password) < minPasswordLen:
		return "Password must be at least 6 characters"
	case password != confirm:
		return "Passwords do not match"
	}
	return ""
}

// submit validates locally, then starts the registration request.
func (v *Register) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	email := strings.TrimSpace(v.inputs[0].Value())
	password := v.inputs[1].Value()
	if msg := v.validate(email, password, v.inputs[2].Value()); msg != "" {
		v.errMsg = msg
		return nil
	}

	v.submitting = true
	v.errMsg = ""
	gen, auth := v.gen, v.auth
	return func() tea.Msg {
		return registerResultMsg{gen: gen, email: email, err: auth.Register(context.Background(), email, password)}
	}
}

// Update processes one message.
func (v *Register) Update(msg tea.Msg) (*Register, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if v.focus < len(v.inputs)-1 {
				v.cycleFocus(1)
				return v, nil
			}
			return v, v.submit()
		case tea.KeyTab, tea.KeyDown:
			v.cycleFocus(1)
			return v, nil
		case tea.KeyShiftTab, tea.KeyUp:
			v.cycleFocus(-1)
			return v, nil
		}
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd

	case registerResultMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			v.errMsg = api.Normalize(msg.err)
			return v, nil
		}
		email := msg.email
		return v, func() tea.Msg { return RegisteredMsg{Email: email} }
	}
	return v, nil
}

func (v *Register) cycleFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

// View renders the form.
func (v *Register) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Create account"))
	b.WriteString("\n\n")
	for i := range v.inputs {
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
	}
	if v.submitting {
		b.WriteString(styles.Meta.Render("Creating account..."))
		b.WriteString("\n")
	}
	if v.errMsg != "" {
		b.WriteString(styles.ErrorText.Render(v.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("enter: next/submit  tab: switch field"))
	return b.String()
}
