// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/carewell-health/carewell-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	AIResponse string           `json:"ai_response"`
	Sentiment  *model.Sentiment `json:"sentiment,omitempty"`
	CreatedAt  string           `json:"created_at,omitempty"`
}

type historyEntry struct {
	User      string `json:"user"`
	AI        string `json:"ai"`
	CreatedAt string `json:"created_at,omitempty"`
}

type chatRecordEntry struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	UserMessage    string  `json:"user_message"`
	AIResponse     string  `json:"ai_response"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

type alertEntry struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	AlertType    string `json:"alert_type"`
	Message      string `json:"message"`
	Acknowledged bool   `json:"acknowledged"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// parseTimestamp accepts the timestamp formats the service emits: RFC 3339
// and bare ISO 8601 without a zone. Unparseable or empty values yield the
// zero time; callers decide the fallback.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ChatReply is the completed result of a chat send.
type ChatReply struct {
	AIText    string
	Sentiment *model.Sentiment
	CreatedAt time.Time
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for a bearer token. The caller stores the
// token in the session store; the client itself keeps no state.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := decode(raw, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

// Register creates a new account. Client-side validation (password length,
// confirmation match) happens before this call is made.
func (c *Client) Register(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/register", loginRequest{Email: email, Password: password}, nil)
	return err
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// SendMessage submits one user message and returns the completed reply.
// A missing server timestamp defaults to the current client time.
func (c *Client) SendMessage(ctx context.Context, text string) (ChatReply, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/chat/", sendMessageRequest{Message: text}, nil)
	if err != nil {
		return ChatReply{}, err
	}
	var resp sendMessageResponse
	if err := decode(raw, &resp); err != nil {
		return ChatReply{}, err
	}

	createdAt := parseTimestamp(resp.CreatedAt)
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return ChatReply{
		AIText:    resp.AIResponse,
		Sentiment: resp.Sentiment,
		CreatedAt: createdAt,
	}, nil
}

// History fetches up to limit most recent turns in server-provided order.
func (c *Client) History(ctx context.Context, limit int) ([]model.ChatTurn, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/chat/history?limit="+strconv.Itoa(limit), nil, nil)
	if err != nil {
		return nil, err
	}
	var entries []historyEntry
	if err := decode(raw, &entries); err != nil {
		return nil, err
	}

	turns := make([]model.ChatTurn, 0, len(entries))
	for _, e := range entries {
		turns = append(turns, model.NewChatTurn(e.User, e.AI, nil, parseTimestamp(e.CreatedAt)))
	}
	return turns, nil
}

// =============================================================================
// PROFILE ENDPOINTS
// =============================================================================

// Profile fetches the user's health profile.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, nil)
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	if err := decode(raw, &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// UpdateProfile stores the user's health profile.
func (c *Client) UpdateProfile(ctx context.Context, p model.Profile) error {
	_, err := c.do(ctx, http.MethodPut, "/api/user/profile", p, nil)
	return err
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// RecentChats fetches aggregate chat rows with the shared admin key.
// userID optionally filters to one user; pass "" for all.
func (c *Client) RecentChats(ctx context.Context, key string, limit int, userID string) ([]model.ChatRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if userID != "" {
		q.Set("user_id", userID)
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/admin/recent_chats?"+q.Encode(), nil, adminHeaders(key))
	if err != nil {
		return nil, err
	}
	var entries []chatRecordEntry
	if err := decode(raw, &entries); err != nil {
		return nil, err
	}

	records := make([]model.ChatRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.ChatRecord{
			ID:             e.ID,
			UserID:         e.UserID,
			UserMessage:    e.UserMessage,
			AIResponse:     e.AIResponse,
			SentimentLabel: e.SentimentLabel,
			SentimentScore: e.SentimentScore,
			CreatedAt:      parseTimestamp(e.CreatedAt),
		})
	}
	return records, nil
}

// Alerts fetches recent alert rows with the shared admin key.
func (c *Client) Alerts(ctx context.Context, key string, limit int) ([]model.AlertRecord, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/admin/alerts?limit="+strconv.Itoa(limit), nil, adminHeaders(key))
	if err != nil {
		return nil, err
	}
	var entries []alertEntry
	if err := decode(raw, &entries); err != nil {
		return nil, err
	}

	alerts := make([]model.AlertRecord, 0, len(entries))
	for _, e := range entries {
		alerts = append(alerts, model.AlertRecord{
			ID:           e.ID,
			UserID:       e.UserID,
			AlertType:    e.AlertType,
			Message:      e.Message,
			Acknowledged: e.Acknowledged,
			CreatedAt:    parseTimestamp(e.CreatedAt),
		})
	}
	return alerts, nil
}

// Templates fetches the response-template document for the admin view.
func (c *Client) Templates(ctx context.Context, key string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/admin/templates", nil, adminHeaders(key))
	if err != nil {
		return nil, err
	}
	var templates map[string]any
	if err := decode(raw, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveTemplates replaces the response-template document.
func (c *Client) SaveTemplates(ctx context.Context, key string, templates map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, "/api/admin/templates", templates, adminHeaders(key))
	return err
}
