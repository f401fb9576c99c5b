// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/model"
)

// Service is the slice of the API client the controller needs.
type Service interface {
	RecentChats(ctx context.Context, key string, limit int, userID string) ([]model.ChatRecord, error)
	Alerts(ctx context.Context, key string, limit int) ([]model.AlertRecord, error)
	Templates(ctx context.Context, key string) (map[string]any, error)
	SaveTemplates(ctx context.Context, key string, templates map[string]any) error
}

// Keys persists the admin key across sessions. Satisfied by session.Store.
type Keys interface {
	AdminKey() string
	SaveAdminKey(key string) error
	ClearAdminKey() error
}

// =============================================================================
// STATE
// =============================================================================

// State is the dashboard lock state.
type State int

const (
	// Locked means no accepted key; the dashboard shows the key prompt.
	Locked State = iota
	// Unlocking means the unlock probe is in flight.
	Unlocking
	// Unlocked means the key was accepted and periodic polling is armed.
	Unlocked
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

// =============================================================================
// CONTROLLER
//
// Lock states: Locked -> Unlocking -> (Unlocked | Locked). While Unlocked a
// fixed-period tick drives refreshes; any refresh failure drops straight
// back to Locked with the dataset cleared, forcing re-validation of the key.
// =============================================================================

// Controller is the state machine behind the admin dashboard view.
type Controller struct {
	svc    Service
	keys   Keys
	logger *log.Logger

	state      State
	dataset    model.AdminDataset
	templates  map[string]any
	key        string
	lastErr    string
	refreshing bool

	refreshEvery time.Duration
	fetchLimit   int
	userFilter   string

	// pollGen stamps every armed tick and in-flight request.
	pollGen int

	keyInput textinput.Model
	width    int
	height   int
}

// New creates an admin controller. refreshEvery is the poll period,
// fetchLimit the row count requested per list.
func New(svc Service, keys Keys, refreshEvery time.Duration, fetchLimit int) *Controller {
	keyInput := textinput.New()
	keyInput.Placeholder = "Admin key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Focus()

	return &Controller{
		svc:          svc,
		keys:         keys,
		logger:       log.Default(),
		state:        Locked,
		refreshEvery: refreshEvery,
		fetchLimit:   fetchLimit,
		keyInput:     keyInput,
	}
}

// WithLogger sets the diagnostics logger.
func (c *Controller) WithLogger(l *log.Logger) *Controller {
	if l != nil {
		c.logger = l
	}
	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current lock state.
func (c *Controller) State() State { return c.state }

// Dataset returns the current dataset. Empty whenever not Unlocked.
func (c *Controller) Dataset() model.AdminDataset { return c.dataset }

// Templates returns the loaded response-template document, or nil.
func (c *Controller) Templates() map[string]any { return c.templates }

// LastError returns the most recent surfaced error text, or "".
func (c *Controller) LastError() string { return c.lastErr }

// =============================================================================
// LIFECYCLE
// =============================================================================

// Mount prepares the dashboard for display. The persisted key seeds the
// prompt but never auto-unlocks; validity is only ever proven by server
// acceptance.
func (c *Controller) Mount() tea.Cmd {
	c.lock()
	c.lastErr = ""
	if saved := c.keys.AdminKey(); saved != "" {
		c.keyInput.SetValue(saved)
		c.keyInput.CursorEnd()
	}
	c.keyInput.Focus()
	return textinput.Blink
}

// Unmount silences all pending ticks and completions.
func (c *Controller) Unmount() {
	c.lock()
}

// lock returns to Locked: dataset cleared, timer dead. Purely local, no I/O.
func (c *Controller) lock() {
	c.pollGen++
	c.state = Locked
	c.refreshing = false
	c.dataset = model.AdminDataset{}
	c.templates = nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// unlock starts the unlock probe with the entered key. No-op on a blank key
// or while a probe is already in flight.
func (c *Controller) unlock(key string) tea.Cmd {
	key = strings.TrimSpace(key)
	if key == "" || c.state == Unlocking {
		return nil
	}

	c.pollGen++
	c.state = Unlocking
	c.lastErr = ""
	return c.fetchCmd(c.pollGen, key, true)
}

// fetchCmd fetches both dashboard lists. unlock distinguishes the probe from
// a periodic refresh so the result routes to the right transition.
func (c *Controller) fetchCmd(gen int, key string, unlock bool) tea.Cmd {
	svc, limit, filter := c.svc, c.fetchLimit, c.userFilter
	return func() tea.Msg {
		dataset, err := fetchDataset(svc, key, limit, filter)
		if unlock {
			return unlockResultMsg{gen: gen, key: key, dataset: dataset, err: err}
		}
		return refreshResultMsg{gen: gen, dataset: dataset, err: err}
	}
}

// fetchDataset fetches chats and alerts with one key. The first failure
// aborts; a partially fetched dataset is never shown.
func fetchDataset(svc Service, key string, limit int, userFilter string) (model.AdminDataset, error) {
	ctx := context.Background()
	chats, err := svc.RecentChats(ctx, key, limit, userFilter)
	if err != nil {
		return model.AdminDataset{}, err
	}
	alerts, err := svc.Alerts(ctx, key, limit)
	if err != nil {
		return model.AdminDataset{}, err
	}
	return model.AdminDataset{Chats: chats, Alerts: alerts}, nil
}

// tickCmd arms one poll period stamped with the current generation.
func (c *Controller) tickCmd() tea.Cmd {
	gen := c.pollGen
	return tea.Tick(c.refreshEvery, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// loadTemplatesCmd fetches the response-template document.
func (c *Controller) loadTemplatesCmd(gen int, key string) tea.Cmd {
	svc := c.svc
	return func() tea.Msg {
		templates, err := svc.Templates(context.Background(), key)
		return templatesLoadedMsg{gen: gen, templates: templates, err: err}
	}
}

// SaveTemplates issues a PUT of the given template document with the
// currently accepted key. Only valid while Unlocked.
func (c *Controller) SaveTemplates(templates map[string]any) tea.Cmd {
	if c.state != Unlocked {
		return nil
	}
	gen, key, svc := c.pollGen, c.key, c.svc
	return func() tea.Msg {
		return templatesSavedMsg{gen: gen, err: svc.SaveTemplates(context.Background(), key, templates)}
	}
}

// =============================================================================
// KEY PERSISTENCE
// =============================================================================

// SaveKey persists the entered key without unlocking.
func (c *Controller) SaveKey() {
	key := strings.TrimSpace(c.keyInput.Value())
	if key == "" {
		return
	}
	if err := c.keys.SaveAdminKey(key); err != nil {
		c.logger.Printf("admin: save key failed: %v", err)
	}
}

// ClearKey removes the persisted key. If the dashboard is currently
// unlocked it locks immediately; a cleared secret must not keep serving an
// open dashboard.
func (c *Controller) ClearKey() {
	if err := c.keys.ClearAdminKey(); err != nil {
		c.logger.Printf("admin: clear key failed: %v", err)
	}
	c.keyInput.Reset()
	if c.state != Locked {
		c.lock()
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update processes one message.
func (c *Controller) Update(msg tea.Msg) (*Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	case unlockResultMsg:
		return c, c.applyUnlock(msg)

	case refreshTickMsg:
		return c, c.applyTick(msg)

	case refreshResultMsg:
		return c, c.applyRefresh(msg)

	case templatesLoadedMsg:
		if msg.gen == c.pollGen {
			if msg.err != nil {
				// Non-fatal: the dashboard works without templates.
				c.logger.Printf("admin: template load failed: %v", msg.err)
			} else {
				c.templates = msg.templates
			}
		}
		return c, nil

	case templatesSavedMsg:
		if msg.gen == c.pollGen && msg.err != nil {
			c.lastErr = api.Normalize(msg.err)
		}
		return c, nil
	}
	return c, nil
}

// handleKey routes keystrokes per lock state.
func (c *Controller) handleKey(msg tea.KeyMsg) (*Controller, tea.Cmd) {
	if c.state == Locked || c.state == Unlocking {
		switch msg.Type {
		case tea.KeyEnter:
			return c, c.unlock(c.keyInput.Value())
		default:
			var cmd tea.Cmd
			c.keyInput, cmd = c.keyInput.Update(msg)
			return c, cmd
		}
	}

	switch msg.String() {
	case "l":
		c.lock()
		return c, nil
	case "s":
		c.SaveKey()
		return c, nil
	case "x":
		c.ClearKey()
		return c, nil
	}
	return c, nil
}

// applyUnlock finishes the unlock probe.
func (c *Controller) applyUnlock(msg unlockResultMsg) tea.Cmd {
	if msg.gen != c.pollGen || c.state != Unlocking {
		return nil
	}

	if msg.err != nil {
		c.state = Locked
		c.dataset = model.AdminDataset{}
		c.lastErr = api.Normalize(msg.err)
		c.logger.Printf("admin: unlock rejected: %v", msg.err)
		return nil
	}

	c.state = Unlocked
	c.key = msg.key
	c.dataset = msg.dataset
	c.lastErr = ""
	return tea.Batch(c.tickCmd(), c.loadTemplatesCmd(c.pollGen, msg.key))
}

// applyTick starts one periodic refresh. A tick from a dead timer (locked,
// remounted, re-unlocked) is ignored; so is a tick that lands while the
// previous refresh is still in flight, to keep at most one outstanding.
func (c *Controller) applyTick(msg refreshTickMsg) tea.Cmd {
	if msg.gen != c.pollGen || c.state != Unlocked {
		return nil
	}
	if c.refreshing {
		return c.tickCmd()
	}
	c.refreshing = true
	return tea.Batch(c.fetchCmd(c.pollGen, c.key, false), c.tickCmd())
}

// applyRefresh finishes one periodic refresh. Success replaces the dataset
// wholesale; failure locks the dashboard, clears the dataset and kills the
// timer via the generation bump inside lock.
func (c *Controller) applyRefresh(msg refreshResultMsg) tea.Cmd {
	if msg.gen != c.pollGen || c.state != Unlocked {
		return nil
	}
	c.refreshing = false

	if msg.err != nil {
		display := api.Normalize(msg.err)
		c.logger.Printf("admin: refresh failed, locking: %v", msg.err)
		c.lock()
		c.lastErr = display
		return nil
	}

	c.dataset = msg.dataset
	return nil
}
