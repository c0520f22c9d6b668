package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// maxArticles bounds how many retrieved articles contribute to the mean.
const maxArticles = 10

// MarketAuxSource derives sentiment from recent news coverage. It requires an
// API token and is skipped when none is configured.
type MarketAuxSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMarketAuxSource creates the news-sentiment source.
func NewMarketAuxSource(baseURL, apiKey string, timeout time.Duration) *MarketAuxSource {
	return &MarketAuxSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *MarketAuxSource) Name() string  { return "MarketAux" }
func (s *MarketAuxSource) Enabled() bool { return s.apiKey != "" }

type newsResponse struct {
	Data []struct {
		Entities []struct {
			SentimentScore float64 `json:"sentiment_score"`
		} `json:"entities"`
	} `json:"data"`
}

// Analyze averages per-article sentiment scores (−1..1) over the first ten
// articles and maps the mean through the news sentiment bands.
func (s *MarketAuxSource) Analyze(ctx context.Context, symbol string) (models.Verdict, error) {
	q := url.Values{}
	q.Set("symbols", symbol)
	q.Set("filter_entities", "true")
	q.Set("language", "en")
	q.Set("api_token", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/news/all?"+q.Encode(), nil)
	if err != nil {
		return models.Verdict{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Verdict{}, fmt.Errorf("news endpoint returned status %d", resp.StatusCode)
	}

	var body newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to decode news response: %w", err)
	}

	articles := body.Data
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	var sum float64
	count := 0
	for _, article := range articles {
		if len(article.Entities) == 0 {
			continue
		}
		sum += article.Entities[0].SentimentScore
		count++
	}
	if count == 0 {
		return models.Verdict{}, fmt.Errorf("no news data for %s", symbol)
	}

	label, confidence := classifyNewsScore(sum / float64(count))
	narrative := fmt.Sprintf("News sentiment for %s (%s) based on recent market news",
		ticker.DisplayName(symbol), symbol)

	return models.Verdict{Label: label, Confidence: confidence, Analysis: narrative}, nil
}

// classifyNewsScore maps a mean article score onto the news bands, which use
// tighter thresholds (±0.3, ±0.1) than the price-movement bands.
func classifyNewsScore(mean float64) (models.SentimentLabel, models.Confidence) {
	switch {
	case mean > 0.3:
		return models.Bullish, models.Confidence{Positive: 0.7, Negative: 0.1, Neutral: 0.2}
	case mean > 0.1:
		return models.SlightlyBullish, models.Confidence{Positive: 0.6, Negative: 0.2, Neutral: 0.2}
	case mean < -0.3:
		return models.Bearish, models.Confidence{Positive: 0.1, Negative: 0.7, Neutral: 0.2}
	case mean < -0.1:
		return models.SlightlyBearish, models.Confidence{Positive: 0.2, Negative: 0.6, Neutral: 0.2}
	default:
		return models.Neutral, models.Confidence{Positive: 0.33, Negative: 0.33, Neutral: 0.34}
	}
}
