// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides a local SQLite cache of the chat transcript.
//
// The cache is never authoritative: it is written after successful
// hydrations and sends, and read only when the history endpoint is
// unreachable so the user still sees their recent conversation offline.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/carewell-health/carewell-tui/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id          TEXT PRIMARY KEY,
	user_text   TEXT NOT NULL,
	ai_text     TEXT NOT NULL,
	sent_label  TEXT,
	sent_score  REAL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
`

// HistoryCache persists chat turns to a local SQLite database.
type HistoryCache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*HistoryCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Join(fmt.Errorf("init history cache: %w", err), db.Close())
	}
	return &HistoryCache{db: db}, nil
}

// Close releases the database handle.
func (c *HistoryCache) Close() error {
	return c.db.Close()
}

// Save upserts the given turns. Existing rows with the same ID are replaced.
func (c *HistoryCache) Save(turns []model.ChatTurn) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO turns
		(id, user_text, ai_text, sent_label, sent_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range turns {
		var label any
		var score any
		if t.Sentiment != nil {
			label = t.Sentiment.Label
			score = t.Sentiment.Score
		}
		if _, err := stmt.Exec(t.ID, t.UserText, t.AIText, label, score, t.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("insert turn: %w", err)
		}
	}
	return tx.Commit()
}

// Replace clears the cache and stores the given turns. Used after a
// successful hydration so server order wins over whatever was cached.
func (c *HistoryCache) Replace(turns []model.ChatTurn) error {
	if err := c.Clear(); err != nil {
		return err
	}
	return c.Save(turns)
}

// Recent returns the most recent limit turns in display order
// (oldest first).
func (c *HistoryCache) Recent(limit int) ([]model.ChatTurn, error) {
	rows, err := c.db.Query(`SELECT id, user_text, ai_text, sent_label, sent_score, created_at
		FROM turns ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []model.ChatTurn
	for rows.Next() {
		var t model.ChatTurn
		var label sql.NullString
		var score sql.NullFloat64
		var createdMilli int64
		if err := rows.Scan(&t.ID, &t.UserText, &t.AIText, &label, &score, &createdMilli); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if label.Valid {
			t.Sentiment = &model.Sentiment{Label: label.String, Score: score.Float64}
		}
		t.CreatedAt = time.UnixMilli(createdMilli)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// The query returns newest first; flip to display order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Clear removes all cached turns.
func (c *HistoryCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM turns`); err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}
	return nil
}
