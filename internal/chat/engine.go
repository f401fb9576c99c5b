// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/export"
	"github.com/carewell-health/carewell-tui/internal/model"
	"github.com/carewell-health/carewell-tui/internal/ui/components"
)

// Service is the slice of the API client the engine needs. Narrowed to an
// interface so tests can script responses.
type Service interface {
	SendMessage(ctx context.Context, text string) (api.ChatReply, error)
	History(ctx context.Context, limit int) ([]model.ChatTurn, error)
}

// Cache is the optional local transcript cache. A nil Cache disables
// caching entirely.
type Cache interface {
	Replace(turns []model.ChatTurn) error
	Save(turns []model.ChatTurn) error
	Recent(limit int) ([]model.ChatTurn, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the conversation state machine behind the chat view.
//
// Send states: Idle -> Sending -> Idle. A failed send restores the input to
// the attempted text and leaves the transcript untouched; a successful send
// appends exactly one completed turn and clears the input. History
// hydration runs once per mount, orthogonal to the send state.
type Engine struct {
	svc    Service
	cache  Cache
	logger *log.Logger

	transcript     model.Transcript
	historyLimit   int
	loadingHistory bool
	fromCache      bool
	sending        bool

	// gen invalidates in-flight completions across remounts.
	gen int

	input     textinput.Model
	view      viewport.Model
	spin      spinner.Model
	render    renderFunc
	exportDir string
	width     int
	height    int
	focused   bool
}

// renderFunc turns AI reply text into display text. Identity by default;
// a glamour renderer when markdown is enabled.
type renderFunc func(string) string

// New creates a conversation engine backed by svc. cache may be nil.
func New(svc Service, cache Cache, historyLimit int) *Engine {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return &Engine{
		svc:          svc,
		cache:        cache,
		logger:       log.Default(),
		historyLimit: historyLimit,
		input:        input,
		view:         vp,
		spin:         spin,
		render:       func(s string) string { return s },
		focused:      true,
	}
}

// WithLogger sets the diagnostics logger.
func (e *Engine) WithLogger(l *log.Logger) *Engine {
	if l != nil {
		e.logger = l
	}
	return e
}

// WithRenderer sets the AI reply renderer.
func (e *Engine) WithRenderer(render func(string) string) *Engine {
	if render != nil {
		e.render = render
	}
	return e
}

// WithExportDir enables transcript export into dir.
func (e *Engine) WithExportDir(dir string) *Engine {
	e.exportDir = dir
	return e
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the current transcript.
func (e *Engine) Transcript() *model.Transcript { return &e.transcript }

// Sending reports whether a send is in flight.
func (e *Engine) Sending() bool { return e.sending }

// HistoryLoading reports whether the mount-time hydration is in flight.
func (e *Engine) HistoryLoading() bool { return e.loadingHistory }

// InputValue returns the current content of the input field.
func (e *Engine) InputValue() string { return e.input.Value() }

// =============================================================================
// LIFECYCLE
// =============================================================================

// Mount resets the engine for display and starts history hydration.
// Bumping the generation makes any still-outstanding completion from a
// previous mount a no-op.
func (e *Engine) Mount() tea.Cmd {
	e.gen++
	e.sending = false
	e.loadingHistory = true
	e.fromCache = false
	e.input.Reset()
	e.input.Focus()
	return tea.Batch(e.loadHistoryCmd(), e.spin.Tick)
}

// Unmount invalidates outstanding completions when the view is left.
func (e *Engine) Unmount() {
	e.gen++
	e.sending = false
	e.loadingHistory = false
}

// loadHistoryCmd fetches the recent transcript from the service.
func (e *Engine) loadHistoryCmd() tea.Cmd {
	gen, limit, svc := e.gen, e.historyLimit, e.svc
	return func() tea.Msg {
		turns, err := svc.History(context.Background(), limit)
		return HistoryLoadedMsg{Gen: gen, Turns: turns, Err: err}
	}
}

// submit starts a send for the given text. Blank input and re-entrant
// submissions are rejected before any request is issued. The input field is
// not cleared until the send succeeds, so a failure can be retried without
// retyping.
func (e *Engine) submit(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || e.sending {
		return nil
	}

	e.sending = true
	gen, svc := e.gen, e.svc
	return func() tea.Msg {
		reply, err := svc.SendMessage(context.Background(), trimmed)
		return SendResultMsg{Gen: gen, Attempted: trimmed, Reply: reply, Err: err}
	}
}

// exportTranscript writes the current transcript as Markdown into the
// export directory. Disabled when no directory was configured.
func (e *Engine) exportTranscript() tea.Cmd {
	if e.exportDir == "" {
		return nil
	}
	if e.transcript.IsEmpty() {
		return components.ShowStatus("Nothing to export yet")
	}

	turns, dir := e.transcript.Turns(), e.exportDir
	return func() tea.Msg {
		path, err := export.ToFile(turns, export.Markdown{}, dir)
		if err != nil {
			return components.ShowToastMsg{Kind: components.ToastError, Message: "Export failed"}
		}
		return components.ShowToastMsg{Kind: components.ToastSuccess, Message: "Saved to " + path}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update processes one message. It implements the tea.Model contract except
// that it returns *Engine to keep the root model's wiring simple.
func (e *Engine) Update(msg tea.Msg) (*Engine, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.resize(msg.Width, msg.Height)
		return e, nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEnter:
			return e, e.submit(e.input.Value())
		case msg.String() == "ctrl+e":
			return e, e.exportTranscript()
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		e.spin, cmd = e.spin.Update(msg)
		return e, cmd

	case HistoryLoadedMsg:
		return e, e.applyHistory(msg)

	case SendResultMsg:
		return e, e.applySendResult(msg)
	}

	var cmd tea.Cmd
	e.view, cmd = e.view.Update(msg)
	return e, cmd
}

// applyHistory finishes hydration. The loading flag clears on both success
// and failure; a failure leaves the transcript empty (or seeded from the
// local cache, clearly marked) and is only logged.
func (e *Engine) applyHistory(msg HistoryLoadedMsg) tea.Cmd {
	if msg.Gen != e.gen {
		return nil
	}
	e.loadingHistory = false

	if msg.Err != nil {
		e.logger.Printf("chat: history load failed: %v", msg.Err)
		if e.cache != nil && e.transcript.IsEmpty() {
			if cached, err := e.cache.Recent(e.historyLimit); err == nil && len(cached) > 0 {
				e.transcript.ReplaceAll(cached)
				e.fromCache = true
			}
		}
		e.refreshView()
		return nil
	}

	e.transcript.ReplaceAll(msg.Turns)
	e.fromCache = false
	if e.cache != nil {
		if err := e.cache.Replace(msg.Turns); err != nil {
			e.logger.Printf("chat: cache replace failed: %v", err)
		}
	}
	e.refreshView()
	return nil
}

// applySendResult finishes a send. Success appends exactly one turn and
// clears the input; failure restores the attempted text and raises an error
// toast. The transcript is never left with a partial turn.
func (e *Engine) applySendResult(msg SendResultMsg) tea.Cmd {
	if msg.Gen != e.gen {
		return nil
	}
	e.sending = false

	if msg.Err != nil {
		e.input.SetValue(msg.Attempted)
		e.input.CursorEnd()
		return components.ShowError(api.Normalize(msg.Err))
	}

	turn := model.NewChatTurn(msg.Attempted, msg.Reply.AIText, msg.Reply.Sentiment, msg.Reply.CreatedAt)
	e.transcript.Append(turn)
	e.input.Reset()
	if e.cache != nil {
		if err := e.cache.Save([]model.ChatTurn{turn}); err != nil {
			e.logger.Printf("chat: cache save failed: %v", err)
		}
	}
	e.refreshView()
	return nil
}

// resize fits the viewport and input to the window.
func (e *Engine) resize(width, height int) {
	e.width = width
	e.height = height
	e.input.Width = width - 4
	viewHeight := height - 6
	if viewHeight < 3 {
		viewHeight = 3
	}
	e.view.Width = width
	e.view.Height = viewHeight
	e.refreshView()
}

// refreshView re-renders the transcript and pins the viewport to the
// newest entry. Every transcript change routes through here, which is what
// keeps the scroll-to-latest invariant.
func (e *Engine) refreshView() {
	e.view.SetContent(e.renderTranscript())
	e.view.GotoBottom()
}
