// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command carewell is a terminal client for the Carewell conversational
// health-assistant service.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/carewell-health/carewell-tui/internal/admin"
	"github.com/carewell-health/carewell-tui/internal/api"
	"github.com/carewell-health/carewell-tui/internal/chat"
	"github.com/carewell-health/carewell-tui/internal/config"
	"github.com/carewell-health/carewell-tui/internal/session"
	"github.com/carewell-health/carewell-tui/internal/storage"
	"github.com/carewell-health/carewell-tui/internal/ui/app"
	"github.com/carewell-health/carewell-tui/internal/ui/views"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "carewell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	logger := openLogger(dir)
	store := session.Open(dir)

	client := api.New(cfg.Server.URL, cfg.RequestTimeout(), store).WithLogger(logger)

	// The offline cache is best-effort: a broken database file must not
	// keep the client from starting.
	var cache chat.Cache
	if hc, err := storage.Open(filepath.Join(dir, "history.db")); err == nil {
		defer hc.Close()
		cache = hc
	} else {
		logger.Printf("history cache disabled: %v", err)
	}

	engine := chat.New(client, cache, cfg.Chat.HistoryLimit).
		WithLogger(logger).
		WithExportDir(filepath.Join(dir, "exports"))
	if cfg.UI.RenderMarkdown {
		if r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(cfg.UI.Theme),
			glamour.WithWordWrap(80),
		); err == nil {
			engine.WithRenderer(func(s string) string {
				out, err := r.Render(s)
				if err != nil {
					return s
				}
				return strings.TrimSpace(out)
			})
		} else {
			logger.Printf("markdown rendering disabled: %v", err)
		}
	}

	adminCtl := admin.New(client, store, cfg.RefreshInterval(), cfg.Admin.FetchLimit).WithLogger(logger)

	root := app.New(store,
		views.NewLogin(client),
		views.NewRegister(client),
		views.NewProfile(client),
		engine,
		adminCtl,
	).WithLogger(logger)

	logger.Printf("starting, server=%s mode=%s", cfg.Server.URL, store.Mode())
	_, err = tea.NewProgram(root, tea.WithAltScreen()).Run()
	return err
}

// openLogger writes diagnostics to the log file in the config directory.
// Falls back to a discarding logger when the file cannot be opened; the
// TUI owns the terminal, so stderr is not an option.
func openLogger(dir string) *log.Logger {
	f, err := os.OpenFile(filepath.Join(dir, "carewell.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.LstdFlags)
}
