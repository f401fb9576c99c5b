// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/carewell-health/carewell-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSON exports the transcript as a machine-readable document.
type JSON struct{}

type jsonDocument struct {
	Title      string           `json:"title"`
	ExportedAt time.Time        `json:"exported_at"`
	Turns      []model.ChatTurn `json:"turns"`
}

// FileExtension implements Exporter.
func (JSON) FileExtension() string { return ".json" }

// Export implements Exporter.
func (JSON) Export(turns []model.ChatTurn) ([]byte, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("transcript is empty")
	}
	return json.MarshalIndent(jsonDocument{
		Title:      "Carewell conversation",
		ExportedAt: time.Now(),
		Turns:      turns,
	}, "", "  ")
}
