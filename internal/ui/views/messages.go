// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views implements the login, register and profile forms. Each view
// reports lifecycle outcomes to the root model through the messages defined
// here; the views themselves never touch the session store or the router.
package views

// LoginSuccessMsg reports a successful credential exchange. The root model
// stores the token and routes to the chat view.
type LoginSuccessMsg struct {
	Token string
}

// RegisteredMsg reports a successful account creation. The root model
// routes back to the login view.
type RegisteredMsg struct {
	Email string
}

// LoggedOutMsg reports that the user chose to log out from the profile
// view. The root model clears the credential and routes to login.
type LoggedOutMsg struct{}
