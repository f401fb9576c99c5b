// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// ADMIN RECORDS
// =============================================================================

// ChatRecord is one row of the aggregate chat view returned by the
// recent_chats admin endpoint.
type ChatRecord struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	UserMessage    string    `json:"user_message"`
	AIResponse     string    `json:"ai_response"`
	SentimentLabel string    `json:"sentiment_label"`
	SentimentScore float64   `json:"sentiment_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// AlertRecord is one row of the alerts admin endpoint.
type AlertRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	AlertType    string    `json:"alert_type"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminDataset holds the aggregate data shown on the admin dashboard.
// Every successful poll replaces the whole dataset; nothing is merged.
type AdminDataset struct {
	Chats  []ChatRecord
	Alerts []AlertRecord
}

// IsEmpty returns true when both lists are empty.
func (d AdminDataset) IsEmpty() bool {
	return len(d.Chats) == 0 && len(d.Alerts) == 0
}

// UnacknowledgedAlerts returns the number of alerts not yet acknowledged.
func (d AdminDataset) UnacknowledgedAlerts() int {
	n := 0
	for _, a := range d.Alerts {
		if !a.Acknowledged {
			n++
		}
	}
	return n
}
