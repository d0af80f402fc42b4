// Package sheets mirrors incidents into a Google spreadsheet through an Apps
// Script web app. The script creates a new spreadsheet per export.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

const (
	DefaultTitle   = "Incident Log"
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
)

// Headers is the sheet's column order.
var Headers = []string{
	"Student", "Date/Time", "Description", "Category", "Location", "Reporter Name", "Reporter Email",
}

// Row renders inc in Headers order.
func Row(inc incident.Incident) []string {
	return []string{
		inc.StudentName, inc.DateTime, inc.Description, inc.Category,
		inc.Location, inc.ReporterName, inc.ReporterEmail,
	}
}

// Result identifies the spreadsheet an export created.
type Result struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
}

type request struct {
	Title     string              `json:"title"`
	Incidents []incident.Incident `json:"incidents"`
}

type response struct {
	Success        bool   `json:"success"`
	SpreadsheetID  string `json:"spreadsheetId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
	Error          string `json:"error,omitempty"`
}

type Client struct {
	url     string
	client  *http.Client
	logger  *slog.Logger
	backoff func(attempt int) time.Duration
}

func NewClient(url string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}
}

// Export sends every incident to the web app and returns the new spreadsheet.
func (c *Client) Export(ctx context.Context, title string, incidents []incident.Incident) (Result, error) {
	if title == "" {
		title = DefaultTitle
	}
	if incidents == nil {
		incidents = []incident.Incident{}
	}
	body, err := json.Marshal(request{Title: title, Incidents: incidents})
	if err != nil {
		return Result{}, fmt.Errorf("sheets: marshal: %w", err)
	}

	respBody, err := c.postWithRetry(ctx, body)
	if err != nil {
		return Result{}, err
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return Result{}, fmt.Errorf("sheets: parse response: %w", err)
	}
	if !resp.Success {
		return Result{}, fmt.Errorf("sheets: script error: %s", resp.Error)
	}

	c.logger.Info("exported incidents to spreadsheet", "count", len(incidents), "spreadsheet_id", resp.SpreadsheetID)
	return Result{SpreadsheetID: resp.SpreadsheetID, SpreadsheetURL: resp.SpreadsheetURL}, nil
}

// postWithRetry retries on 5xx with exponential backoff.
func (c *Client) postWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("sheets: %w", ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("sheets: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("sheets: %w", err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("sheets: read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		lastErr = fmt.Errorf("sheets: HTTP %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, lastErr
		}
		c.logger.Warn("spreadsheet webhook failed, retrying", "status", resp.StatusCode, "attempt", attempt+1)
	}
	return nil, lastErr
}
