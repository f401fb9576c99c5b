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

// Authenticator is the slice of the API client the auth forms need.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) error
}

// loginResultMsg delivers the outcome of one credential exchange.
type loginResultMsg struct {
	gen   int
	token string
	err   error
}

// Login is the email/password form.
type Login struct {
	auth Authenticator

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
	gen        int
}

// NewLogin creates the login form.
func NewLogin(auth Authenticator) *Login {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword

	return &Login{auth: auth, inputs: []textinput.Model{email, password}}
}

// Mount resets the form for display.
func (v *Login) Mount() tea.Cmd {
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

// submit starts the credential exchange. Blank fields and re-entrant
// submissions are rejected locally.
func (v *Login) submit() tea.Cmd {
	email := strings.TrimSpace(v.inputs[0].Value())
	password := v.inputs[1].Value()
	if v.submitting {
		return nil
	}
	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}

	v.submitting = true
	v.errMsg = ""
	gen, auth := v.gen, v.auth
	return func() tea.Msg {
		token, err := auth.Login(context.Background(), email, password)
		return loginResultMsg{gen: gen, token: token, err: err}
	}
}

// Update processes one message.
func (v *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
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

	case loginResultMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			v.errMsg = api.Normalize(msg.err)
			return v, nil
		}
		token := msg.token
		return v, func() tea.Msg { return LoginSuccessMsg{Token: token} }
	}
	return v, nil
}

func (v *Login) cycleFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

// View renders the form.
func (v *Login) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Sign in"))
	b.WriteString("\n\n")
	for i := range v.inputs {
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
	}
	if v.submitting {
		b.WriteString(styles.Meta.Render("Signing in..."))
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
