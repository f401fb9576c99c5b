// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app hosts the root Bubble Tea model: the routing table, the
// access gate and the toast overlay. All navigation funnels through
// navigate, which is the only place the gate is enforced.
package app

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carewell-health/carewell-tui/internal/admin"
	"github.com/carewell-health/carewell-tui/internal/chat"
	"github.com/carewell-health/carewell-tui/internal/session"
	"github.com/carewell-health/carewell-tui/internal/ui/components"
	"github.com/carewell-health/carewell-tui/internal/ui/styles"
	"github.com/carewell-health/carewell-tui/internal/ui/views"
)

// View identifies one screen in the routing table.
type View int

const (
	// ViewHome is the landing screen.
	ViewHome View = iota
	// ViewLogin is the credential form.
	ViewLogin
	// ViewRegister is the account creation form.
	ViewRegister
	// ViewChat is the conversation screen. Requires a credential.
	ViewChat
	// ViewProfile is the health profile form. Requires a credential.
	ViewProfile
	// ViewAdmin is the key-gated dashboard. Requires a credential.
	ViewAdmin
)

// requiresAuth reports whether the view needs a credential.
func (v View) requiresAuth() bool {
	return v == ViewChat || v == ViewProfile || v == ViewAdmin
}

// String returns the view name for logging.
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewChat:
		return "chat"
	case ViewProfile:
		return "profile"
	case ViewAdmin:
		return "admin"
	default:
		return "home"
	}
}

// =============================================================================
// APP
// =============================================================================

// App is the root model.
type App struct {
	session *session.Store
	logger  *log.Logger

	view     View
	login    *views.Login
	register *views.Register
	profile  *views.Profile
	chat     *chat.Engine
	admin    *admin.Controller
	toast    components.Toaster

	width  int
	height int
}

// New wires the root model from its fully constructed views.
func New(store *session.Store, loginView *views.Login, registerView *views.Register,
	profileView *views.Profile, chatEngine *chat.Engine, adminCtl *admin.Controller) *App {
	return &App{
		session:  store,
		logger:   log.Default(),
		view:     ViewHome,
		login:    loginView,
		register: registerView,
		profile:  profileView,
		chat:     chatEngine,
		admin:    adminCtl,
	}
}

// WithLogger sets the diagnostics logger.
func (a *App) WithLogger(l *log.Logger) *App {
	if l != nil {
		a.logger = l
	}
	return a
}

// Init implements tea.Model. A returning authenticated user lands directly
// in the chat; everyone else on the landing screen.
func (a *App) Init() tea.Cmd {
	if a.session.Mode() == session.Authenticated {
		return a.navigate(ViewChat)
	}
	return a.navigate(ViewHome)
}

// =============================================================================
// NAVIGATION
// =============================================================================

// navigate switches to target, enforcing the access gate synchronously: an
// anonymous user asking for a gated view is shown the login form instead
// and the attempted destination is discarded, never queued.
func (a *App) navigate(target View) tea.Cmd {
	if target.requiresAuth() && a.session.Mode() == session.Anonymous {
		a.logger.Printf("app: gated %s for anonymous user", target)
		target = ViewLogin
	}

	a.unmountCurrent()
	a.view = target

	switch target {
	case ViewLogin:
		return a.login.Mount()
	case ViewRegister:
		return a.register.Mount()
	case ViewChat:
		return a.chat.Mount()
	case ViewProfile:
		return a.profile.Mount()
	case ViewAdmin:
		return a.admin.Mount()
	}
	return nil
}

// unmountCurrent tears down the outgoing view so its in-flight completions
// and timers become no-ops.
func (a *App) unmountCurrent() {
	switch a.view {
	case ViewChat:
		a.chat.Unmount()
	case ViewAdmin:
		a.admin.Unmount()
	case ViewProfile:
		a.profile.Unmount()
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The toaster sees every message: it reacts to show/expiry messages
	// and ignores the rest.
	toastCmd := a.toast.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Views with their own layout state all track the window.
		a.chat, _ = a.chat.Update(msg)
		a.admin, _ = a.admin.Update(msg)
		return a, toastCmd

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, tea.Batch(toastCmd, cmd)
		}

	case views.LoginSuccessMsg:
		if err := a.session.Login(msg.Token); err != nil {
			a.logger.Printf("app: persist credential failed: %v", err)
		}
		return a, tea.Batch(toastCmd, components.ShowSuccess("Signed in"), a.navigate(ViewChat))

	case views.RegisteredMsg:
		return a, tea.Batch(toastCmd, components.ShowSuccess("Account created. Sign in to continue."), a.navigate(ViewLogin))

	case views.LoggedOutMsg:
		if err := a.session.Logout(); err != nil {
			a.logger.Printf("app: clear credential failed: %v", err)
		}
		return a, tea.Batch(toastCmd, components.ShowStatus("Signed out"), a.navigate(ViewLogin))

	case components.ShowToastMsg:
		return a, toastCmd
	}

	return a, tea.Batch(toastCmd, a.routeToActive(msg))
}

// handleGlobalKey processes keys that work on every screen. Returns
// handled=false for keys the active view should see.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "f1":
		return a.navigate(ViewHome), true
	case "f2":
		return a.navigate(ViewChat), true
	case "f3":
		return a.navigate(ViewProfile), true
	case "f4":
		return a.navigate(ViewAdmin), true
	}

	// The landing screen has no text input, so plain keys route.
	if a.view == ViewHome {
		switch msg.String() {
		case "l":
			return a.navigate(ViewLogin), true
		case "r":
			return a.navigate(ViewRegister), true
		case "q":
			return tea.Quit, true
		}
	}
	return nil, false
}

// routeToActive forwards a message to the screen that owns it. Async
// completions for a torn-down screen are dropped here or by the screen's
// own generation guard.
func (a *App) routeToActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case ViewLogin:
		a.login, cmd = a.login.Update(msg)
	case ViewRegister:
		a.register, cmd = a.register.Update(msg)
	case ViewChat:
		a.chat, cmd = a.chat.Update(msg)
	case ViewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case ViewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	switch a.view {
	case ViewLogin:
		b.WriteString(a.login.View())
	case ViewRegister:
		b.WriteString(a.register.View())
	case ViewChat:
		b.WriteString(a.chat.View())
	case ViewProfile:
		b.WriteString(a.profile.View())
	case ViewAdmin:
		b.WriteString(a.admin.View())
	default:
		b.WriteString(a.renderHome())
	}

	if a.toast.Visible() {
		b.WriteString("\n\n")
		b.WriteString(a.toast.View())
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("f1: home  f2: chat  f3: profile  f4: admin  ctrl+c: quit"))
	return b.String()
}

// renderHome renders the landing screen.
func (a *App) renderHome() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Carewell"))
	b.WriteString("\n\n")
	b.WriteString("Your conversational health assistant.\n\n")

	if a.session.Mode() == session.Authenticated {
		b.WriteString(styles.SuccessText.Render("Signed in."))
		b.WriteString("\n\n")
		b.WriteString(styles.Help.Render("f2: open chat"))
	} else {
		b.WriteString(styles.Help.Render("l: sign in  r: create account  q: quit"))
	}
	return b.String()
}
