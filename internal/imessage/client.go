// Package imessage provides a client for the local phone-message bridge.
//
// The bridge exposes the phone's unread messages over HTTP and accepts
// outbound sends. Message dates arrive in three historical formats
// (epoch seconds, epoch milliseconds, ISO-8601 strings); the client
// normalizes all of them before anything upstream compares timestamps.
package imessage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// Client talks to the phone bridge.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a bridge client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// bridgeMessage mirrors the bridge's wire format for one message.
type bridgeMessage struct {
	Text     string          `json:"text"`
	Date     json.RawMessage `json:"date"`
	GUID     string          `json:"guid,omitempty"`
	IsFromMe bool            `json:"isFromMe"`
}

type bridgeGroup struct {
	Messages []bridgeMessage `json:"messages"`
}

type unreadResponse struct {
	Groups []bridgeGroup `json:"groups"`
}

// parseDate normalizes the bridge's three date representations to a time.
// Numbers strictly above 1e12 are epoch milliseconds, anything up to and
// including 1e12 is epoch seconds; strings are parsed as RFC 3339.
func parseDate(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, fmt.Errorf("missing date")
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		ms := int64(num)
		if ms <= 1_000_000_000_000 {
			ms *= 1000
		}
		return time.UnixMilli(ms), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %s", raw)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return ts, nil
}

// FetchUnread polls the bridge for up to maxCount unread messages and returns
// them flattened in arrival order. Messages with unparseable dates are dropped
// rather than failing the whole tick.
func (c *Client) FetchUnread(ctx context.Context, maxCount int) ([]models.InboundItem, error) {
	url := fmt.Sprintf("%s/messages/unread?limit=%d", c.baseURL, maxCount)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	var body unreadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode unread messages: %w", err)
	}

	var items []models.InboundItem
	for _, group := range body.Groups {
		for _, msg := range group.Messages {
			observed, err := parseDate(msg.Date)
			if err != nil {
				continue
			}
			items = append(items, models.InboundItem{
				GUID:       msg.GUID,
				Text:       msg.Text,
				ObservedAt: observed,
				FromMe:     msg.IsFromMe,
			})
		}
	}

	return items, nil
}

// plainPayload is the bridge's newer send convention.
type plainPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// structuredPayload is the bridge's older send convention.
type structuredPayload struct {
	To      string `json:"to"`
	Message struct {
		Text        string   `json:"text"`
		Attachments []string `json:"attachments"`
	} `json:"message"`
}

// Send delivers text to the destination at most once. The bridge has two
// historically inconsistent call conventions, so a failure of the plain shape
// is retried exactly once with the structured shape before the error is
// surfaced. There is no transient-network retry beyond that.
func (c *Client) Send(ctx context.Context, to, text string) error {
	plainErr := c.post(ctx, plainPayload{To: to, Text: text})
	if plainErr == nil {
		return nil
	}

	var alt structuredPayload
	alt.To = to
	alt.Message.Text = text
	alt.Message.Attachments = []string{}
	if structErr := c.post(ctx, alt); structErr != nil {
		return fmt.Errorf("send failed with both payload shapes: plain: %w; structured: %w", plainErr, structErr)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bridge send returned status %d", resp.StatusCode)
	}
	return nil
}
