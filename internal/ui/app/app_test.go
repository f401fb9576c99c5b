// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell-health/carewell-tui/internal/admin"
	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/chat"
	"github.com/carewell-health/carewell-tui/internal/model"
	"github.com/carewell-health/carewell-tui/internal/session"
	"github.com/carewell-health/carewell-tui/internal/ui/views"
)

// stubBackend satisfies every view-facing service interface with inert
// responses; the gate tests only exercise routing, not network behavior.
type stubBackend struct{}

func (stubBackend) Login(context.Context, string, string) (string, error) { return "tok", nil }
func (stubBackend) Register(context.Context, string, string) error        { return nil }
func (stubBackend) SendMessage(context.Context, string) (api.ChatReply, error) {
	return api.ChatReply{}, nil
}
func (stubBackend) History(context.Context, int) ([]model.ChatTurn, error) { return nil, nil }
func (stubBackend) Profile(context.Context) (model.Profile, error)         { return model.Profile{}, nil }
func (stubBackend) UpdateProfile(context.Context, model.Profile) error     { return nil }
func (stubBackend) RecentChats(context.Context, string, int, string) ([]model.ChatRecord, error) {
	return nil, nil
}
func (stubBackend) Alerts(context.Context, string, int) ([]model.AlertRecord, error) {
	return nil, nil
}
func (stubBackend) Templates(context.Context, string) (map[string]any, error) { return nil, nil }
func (stubBackend) SaveTemplates(context.Context, string, map[string]any) error {
	return nil
}

func newTestApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	store := session.Open(t.TempDir())
	backend := stubBackend{}
	a := New(store,
		views.NewLogin(backend),
		views.NewRegister(backend),
		views.NewProfile(backend),
		chat.New(backend, nil, 50),
		admin.New(backend, store, 15*time.Second, 50),
	)
	return a, store
}

// =============================================================================
// ACCESS GATE TESTS
// =============================================================================

func TestGate_AnonymousUserRedirectedToLogin(t *testing.T) {
	a, _ := newTestApp(t)

	for _, target := range []View{ViewChat, ViewProfile, ViewAdmin} {
		a.navigate(target)
		assert.Equal(t, ViewLogin, a.view, "gated view %s must route to login", target)
	}
}

func TestGate_AuthenticatedUserPasses(t *testing.T) {
	a, store := newTestApp(t)
	require.NoError(t, store.Login("tok"))

	a.navigate(ViewChat)
	assert.Equal(t, ViewChat, a.view)

	a.navigate(ViewProfile)
	assert.Equal(t, ViewProfile, a.view)

	a.navigate(ViewAdmin)
	assert.Equal(t, ViewAdmin, a.view)
}

func TestGate_OpenViewsAreAlwaysReachable(t *testing.T) {
	a, _ := newTestApp(t)

	for _, target := range []View{ViewHome, ViewLogin, ViewRegister} {
		a.navigate(target)
		assert.Equal(t, target, a.view)
	}
}

func TestInit_ReturningUserLandsInChat(t *testing.T) {
	a, store := newTestApp(t)
	require.NoError(t, store.Login("tok"))

	a.Init()
	assert.Equal(t, ViewChat, a.view)
}

func TestInit_AnonymousUserLandsOnHome(t *testing.T) {
	a, _ := newTestApp(t)

	a.Init()
	assert.Equal(t, ViewHome, a.view)
}

// =============================================================================
// LIFECYCLE MESSAGE TESTS
// =============================================================================

func TestLoginSuccess_StoresCredentialAndRoutesToChat(t *testing.T) {
	a, store := newTestApp(t)
	a.navigate(ViewLogin)

	_, _ = a.Update(views.LoginSuccessMsg{Token: "tok-123"})

	assert.Equal(t, session.Authenticated, store.Mode())
	assert.Equal(t, "tok-123", store.Token())
	assert.Equal(t, ViewChat, a.view)
}

func TestLoggedOut_ClearsCredentialAndRoutesToLogin(t *testing.T) {
	a, store := newTestApp(t)
	require.NoError(t, store.Login("tok"))
	a.navigate(ViewProfile)

	_, _ = a.Update(views.LoggedOutMsg{})

	assert.Equal(t, session.Anonymous, store.Mode())
	assert.Equal(t, ViewLogin, a.view)
}

func TestRegistered_RoutesBackToLogin(t *testing.T) {
	a, _ := newTestApp(t)
	a.navigate(ViewRegister)

	_, _ = a.Update(views.RegisteredMsg{Email: "a@b.com"})

	assert.Equal(t, ViewLogin, a.view)
}
