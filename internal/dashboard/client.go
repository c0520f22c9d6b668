package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// Client posts analysis snapshots to the dashboard's ingest endpoint. The
// relay talks to the dashboard over HTTP even in-process, keeping the wire
// contract exercised and the dashboard deployable separately.
type Client struct {
	ingestURL  string
	httpClient *http.Client
}

// NewClient creates a dashboard client.
func NewClient(ingestURL string, timeout time.Duration) *Client {
	return &Client{
		ingestURL:  ingestURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Post sends one analysis record. Errors are reported but the caller treats
// them as non-fatal.
func (c *Client) Post(ctx context.Context, record models.AnalysisRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ingestURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}
	return nil
}

// PostMention records the text of the latest bot mention. The mention
// endpoint lives next to the ingest endpoint on the same API group.
func (c *Client) PostMention(ctx context.Context, text string) error {
	url := strings.TrimSuffix(c.ingestURL, "/analysis") + "/mention"

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard mention post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}
	return nil
}
