// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/model"
)

// fakeService scripts admin endpoint outcomes and records the keys used.
type fakeService struct {
	chats     []model.ChatRecord
	alerts    []model.AlertRecord
	templates map[string]any
	err       error

	chatCalls int
	keysSeen  []string
	saved     []map[string]any
}

func (f *fakeService) RecentChats(_ context.Context, key string, _ int, _ string) ([]model.ChatRecord, error) {
	f.chatCalls++
	f.keysSeen = append(f.keysSeen, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.chats, nil
}

func (f *fakeService) Alerts(_ context.Context, _ string, _ int) ([]model.AlertRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.alerts, nil
}

func (f *fakeService) Templates(_ context.Context, _ string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *fakeService) SaveTemplates(_ context.Context, _ string, t map[string]any) error {
	f.saved = append(f.saved, t)
	return f.err
}

// fakeKeys is an in-memory Keys implementation.
type fakeKeys struct {
	key string
}

func (f *fakeKeys) AdminKey() string            { return f.key }
func (f *fakeKeys) SaveAdminKey(k string) error { f.key = k; return nil }
func (f *fakeKeys) ClearAdminKey() error        { f.key = ""; return nil }

func sampleDataset() ([]model.ChatRecord, []model.AlertRecord) {
	chats := []model.ChatRecord{{
		ID: 1, UserID: 7, UserMessage: "I feel tired today", AIResponse: "I hear you.",
		SentimentLabel: "negative", SentimentScore: 82,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	alerts := []model.AlertRecord{{
		ID: 3, UserID: 7, AlertType: "sentiment", Message: "sustained negative sentiment",
	}}
	return chats, alerts
}

// unlockController drives a controller through a successful unlock probe.
func unlockController(t *testing.T, svc *fakeService, keys *fakeKeys) *Controller {
	t.Helper()
	c := New(svc, keys, 15*time.Second, 50)
	c.Mount()

	c.keyInput.SetValue("secret")
	cmd := c.unlock(c.keyInput.Value())
	require.NotNil(t, cmd)
	_, _ = c.Update(cmd())

	require.Equal(t, Unlocked, c.State())
	return c
}

// =============================================================================
// UNLOCK TESTS
// =============================================================================

func TestUnlock_BlankKeyIsNoOp(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, &fakeKeys{}, time.Second, 50)
	c.Mount()

	assert.Nil(t, c.unlock("   "))
	assert.Equal(t, Locked, c.State())
	assert.Equal(t, 0, svc.chatCalls)
}

func TestUnlock_ReentrantProbeIsNoOp(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, &fakeKeys{}, time.Second, 50)
	c.Mount()

	first := c.unlock("secret")
	require.NotNil(t, first)
	assert.Equal(t, Unlocking, c.State())

	assert.Nil(t, c.unlock("secret"), "a probe is already in flight")
}

func TestUnlock_AcceptedKeyStoresDataset(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts, templates: map[string]any{"greeting": "Hello"}}
	c := New(svc, &fakeKeys{}, 15*time.Second, 50)
	c.Mount()

	cmd := c.unlock("secret")
	require.NotNil(t, cmd)
	_, followUp := c.Update(cmd())

	assert.Equal(t, Unlocked, c.State())
	assert.Equal(t, chats, c.Dataset().Chats)
	assert.Equal(t, alerts, c.Dataset().Alerts)
	assert.Empty(t, c.LastError())
	require.Equal(t, []string{"secret"}, svc.keysSeen, "the entered key authenticates the probe")
	assert.NotNil(t, followUp, "unlock arms the poll timer")
}

func TestUnlock_RejectedKeyStaysLocked(t *testing.T) {
	svc := &fakeService{err: &api.APIError{Status: 403, Message: "Invalid admin key"}}
	c := New(svc, &fakeKeys{}, time.Second, 50)
	c.Mount()

	cmd := c.unlock("wrong")
	require.NotNil(t, cmd)
	_, followUp := c.Update(cmd())

	assert.Equal(t, Locked, c.State())
	assert.True(t, c.Dataset().IsEmpty(), "no dataset on rejection")
	assert.Equal(t, "Invalid admin key", c.LastError())
	assert.Nil(t, followUp, "no timer armed while locked")
}

func TestUnlock_StaleProbeResultIgnored(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := New(svc, &fakeKeys{}, time.Second, 50)
	c.Mount()

	cmd := c.unlock("secret")
	require.NotNil(t, cmd)
	result := cmd()

	c.Unmount() // bumps the generation before the probe lands

	_, followUp := c.Update(result)
	assert.Equal(t, Locked, c.State())
	assert.True(t, c.Dataset().IsEmpty())
	assert.Nil(t, followUp)
}

// =============================================================================
// REFRESH TESTS
// =============================================================================

func TestRefresh_ReplacesDatasetWholesale(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, &fakeKeys{})

	// An empty poll result must still replace the previous dataset.
	svc.chats, svc.alerts = nil, nil
	_, fetch := c.Update(refreshTickMsg{gen: c.pollGen})
	require.NotNil(t, fetch)
	_, _ = c.Update(c.fetchCmd(c.pollGen, "secret", false)())

	assert.Equal(t, Unlocked, c.State())
	assert.True(t, c.Dataset().IsEmpty(), "stale rows must not survive a poll")
}

func TestRefresh_FailureLocksAndClears(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, &fakeKeys{})
	staleGen := c.pollGen

	svc.err = fmt.Errorf("%w: connection refused", api.ErrNetwork)
	_, fetch := c.Update(refreshTickMsg{gen: c.pollGen})
	require.NotNil(t, fetch)
	_, _ = c.Update(c.fetchCmd(staleGen, "secret", false)())

	assert.Equal(t, Locked, c.State())
	assert.True(t, c.Dataset().IsEmpty())
	assert.Equal(t, "Network error", c.LastError())

	// A tick from the dead timer must not restart polling.
	before := svc.chatCalls
	_, cmd := c.Update(refreshTickMsg{gen: staleGen})
	assert.Nil(t, cmd)
	assert.Equal(t, before, svc.chatCalls)
}

func TestRefresh_StaleTickIgnoredAfterLock(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, &fakeKeys{})

	staleGen := c.pollGen
	c.lock()

	_, cmd := c.Update(refreshTickMsg{gen: staleGen})
	assert.Nil(t, cmd)
	assert.Equal(t, Locked, c.State())
}

func TestRefresh_TickWhileInFlightDoesNotStack(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, &fakeKeys{})

	_, first := c.Update(refreshTickMsg{gen: c.pollGen})
	require.NotNil(t, first)
	assert.True(t, c.refreshing)

	// A tick landing before the refresh completes only re-arms the timer;
	// the refreshing gate keeps at most one fetch outstanding.
	_, second := c.Update(refreshTickMsg{gen: c.pollGen})
	require.NotNil(t, second)
	assert.True(t, c.refreshing)

	_, _ = c.Update(refreshResultMsg{gen: c.pollGen, dataset: model.AdminDataset{Chats: chats, Alerts: alerts}})
	assert.False(t, c.refreshing)
	assert.Equal(t, chats, c.Dataset().Chats)
}

// =============================================================================
// KEY PERSISTENCE TESTS
// =============================================================================

func TestSaveKey_DoesNotUnlock(t *testing.T) {
	keys := &fakeKeys{}
	c := New(&fakeService{}, keys, time.Second, 50)
	c.Mount()

	c.keyInput.SetValue("secret")
	c.SaveKey()

	assert.Equal(t, "secret", keys.AdminKey())
	assert.Equal(t, Locked, c.State(), "saving a key never unlocks")
}

func TestClearKey_WhileUnlockedLocksImmediately(t *testing.T) {
	chats, alerts := sampleDataset()
	keys := &fakeKeys{key: "secret"}
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, keys)

	c.ClearKey()

	assert.Empty(t, keys.AdminKey())
	assert.Equal(t, Locked, c.State())
	assert.True(t, c.Dataset().IsEmpty())
}

func TestMount_SeedsPromptFromSavedKey(t *testing.T) {
	c := New(&fakeService{}, &fakeKeys{key: "saved-secret"}, time.Second, 50)
	c.Mount()

	assert.Equal(t, "saved-secret", c.keyInput.Value())
	assert.Equal(t, Locked, c.State(), "a saved key never auto-unlocks")
}

func TestSaveTemplates_UsesAcceptedKey(t *testing.T) {
	chats, alerts := sampleDataset()
	svc := &fakeService{chats: chats, alerts: alerts}
	c := unlockController(t, svc, &fakeKeys{})

	doc := map[string]any{"greeting": "Hello there"}
	cmd := c.SaveTemplates(doc)
	require.NotNil(t, cmd)
	_, _ = c.Update(cmd())

	require.Len(t, svc.saved, 1)
	assert.Equal(t, doc, svc.saved[0])
	assert.Empty(t, c.LastError())
}

func TestSaveTemplates_WhileLockedIsNoOp(t *testing.T) {
	svc := &fakeService{}
	c := New(svc, &fakeKeys{}, time.Second, 50)
	c.Mount()

	assert.Nil(t, c.SaveTemplates(map[string]any{"a": "b"}))
	assert.Empty(t, svc.saved)
}
