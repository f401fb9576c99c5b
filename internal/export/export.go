// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the chat transcript to local files so a user can
// share a conversation with their care provider.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carewell-health/carewell-tui/internal/model"
)

// Exporter converts a transcript to one output format.
type Exporter interface {
	// Export renders the turns to the target format.
	Export(turns []model.ChatTurn) ([]byte, error)

	// FileExtension returns the output extension, e.g. ".md".
	FileExtension() string
}

// ToFile renders the transcript with the given exporter and writes it to a
// timestamped file under dir. Returns the written path.
func ToFile(turns []model.ChatTurn, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(turns)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("transcript_%s%s", time.Now().Format("20060102_150405"), exporter.FileExtension())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
