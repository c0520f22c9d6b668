package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// YahooSource derives sentiment from real-time price movement using the
// public chart endpoint. It needs no credential and is always enabled, which
// is why it sits first in the chain.
type YahooSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewYahooSource creates the price-movement source.
func NewYahooSource(baseURL string, timeout time.Duration) *YahooSource {
	return &YahooSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *YahooSource) Name() string  { return "Yahoo Finance" }
func (s *YahooSource) Enabled() bool { return true }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				PreviousClose      float64 `json:"previousClose"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Analyze fetches the chart metadata and maps the day's percentage move onto
// the five price-movement sentiment bands.
func (s *YahooSource) Analyze(ctx context.Context, symbol string) (models.Verdict, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Verdict{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Verdict{}, fmt.Errorf("chart endpoint returned status %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if len(body.Chart.Result) == 0 {
		return models.Verdict{}, fmt.Errorf("no chart result for %s", symbol)
	}
	meta := body.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 || meta.PreviousClose == 0 {
		return models.Verdict{}, fmt.Errorf("no price data for %s", symbol)
	}

	changePercent := (meta.RegularMarketPrice - meta.PreviousClose) / meta.PreviousClose * 100
	label, confidence := classifyPriceMove(changePercent)

	sign := ""
	if changePercent > 0 {
		sign = "+"
	}
	narrative := fmt.Sprintf("Real-time price analysis for %s (%s): $%.2f (%s%.2f%%)",
		ticker.DisplayName(symbol), symbol, meta.RegularMarketPrice, sign, changePercent)

	return models.Verdict{Label: label, Confidence: confidence, Analysis: narrative}, nil
}

// classifyPriceMove maps a day-over-day percentage change onto the fixed
// price-movement bands. Each band carries a fixed confidence triple.
func classifyPriceMove(changePercent float64) (models.SentimentLabel, models.Confidence) {
	switch {
	case changePercent > 3:
		return models.VeryBullish, models.Confidence{Positive: 0.7, Negative: 0.1, Neutral: 0.2}
	case changePercent > 1:
		return models.Bullish, models.Confidence{Positive: 0.6, Negative: 0.2, Neutral: 0.2}
	case changePercent < -3:
		return models.VeryBearish, models.Confidence{Positive: 0.1, Negative: 0.7, Neutral: 0.2}
	case changePercent < -1:
		return models.Bearish, models.Confidence{Positive: 0.2, Negative: 0.6, Neutral: 0.2}
	default:
		return models.Neutral, models.Confidence{Positive: 0.3, Negative: 0.3, Neutral: 0.4}
	}
}
