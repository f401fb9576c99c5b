// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the key-gated administrative dashboard: unlock
// with a shared secret, poll aggregate chat and alert data on a fixed
// period, and edit the response-template document.
//
// Every armed timer and in-flight request carries a poll generation. Any
// completion or tick whose generation no longer matches the controller's is
// stale and dropped, so re-unlocking never stacks timers and locking always
// silences pending work.
package admin

import "github.com/carewell-health/carewell-tui/internal/model"

// unlockResultMsg delivers the outcome of the unlock probe.
type unlockResultMsg struct {
	gen     int
	key     string
	dataset model.AdminDataset
	err     error
}

// refreshTickMsg fires one poll period while unlocked.
type refreshTickMsg struct {
	gen int
}

// refreshResultMsg delivers the outcome of one periodic refresh.
type refreshResultMsg struct {
	gen     int
	dataset model.AdminDataset
	err     error
}

// templatesLoadedMsg delivers the response-template document.
type templatesLoadedMsg struct {
	gen       int
	templates map[string]any
	err       error
}

// templatesSavedMsg delivers the outcome of a template save.
type templatesSavedMsg struct {
	gen int
	err error
}
