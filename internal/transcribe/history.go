package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"autosheetify/internal/services"
)

// HistoryEntry is one server-side record of a past transcription.
type HistoryEntry struct {
	File      string `json:"file"`
	SheetURL  string `json:"sheet_url"`
	Timestamp string `json:"timestamp"`
}

var historyLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// Time parses Timestamp. Naive timestamps are interpreted as UTC.
func (h HistoryEntry) Time() (time.Time, bool) {
	value := strings.TrimSpace(h.Timestamp)
	for _, layout := range historyLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// History fetches GET {base}/history for the authenticated user.
func (c *Client) History(ctx context.Context, authHeader string) ([]HistoryEntry, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history", nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err := c.classify("history", resp, err); err != nil {
		return nil, err
	}

	var payload struct {
		History []HistoryEntry `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrServerLogic, "history", "decode", "", err)
	}
	return payload.History, nil
}
