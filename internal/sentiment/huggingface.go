package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// ErrModelWarming marks an inference request rejected with 503 because the
// hosted model is still loading. It is still a source failure, but callers
// can distinguish it from a hard error in logs.
var ErrModelWarming = errors.New("model is warming up")

// HuggingFaceSource classifies a prompt about the ticker with a hosted
// financial-news sentiment model. Paid and rate-limited, so it sits last in
// the chain; skipped entirely without an API key.
type HuggingFaceSource struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHuggingFaceSource creates the AI-classification source.
func NewHuggingFaceSource(baseURL, apiKey, model string, timeout time.Duration) *HuggingFaceSource {
	return &HuggingFaceSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HuggingFaceSource) Name() string  { return "Hugging Face AI" }
func (s *HuggingFaceSource) Enabled() bool { return s.apiKey != "" }

// scoredLabel is one entry of the returned distribution.
type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Analyze sends a short prompt to the inference endpoint and adopts the
// highest-scoring label of the returned distribution. The winning score
// becomes that label's confidence; the other two scores are zero.
func (s *HuggingFaceSource) Analyze(ctx context.Context, symbol string) (models.Verdict, error) {
	payload, err := json.Marshal(map[string]string{
		"inputs": fmt.Sprintf("Stock analysis for %s", symbol),
	})
	if err != nil {
		return models.Verdict{}, err
	}

	url := fmt.Sprintf("%s/models/%s", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.Verdict{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return models.Verdict{}, ErrModelWarming
	}
	if resp.StatusCode != http.StatusOK {
		return models.Verdict{}, fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}

	var result [][]scoredLabel
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(result) == 0 || len(result[0]) == 0 {
		return models.Verdict{}, fmt.Errorf("empty inference distribution for %s", symbol)
	}

	best := result[0][0]
	for _, candidate := range result[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	var label models.SentimentLabel
	var confidence models.Confidence
	switch best.Label {
	case "positive":
		label = models.Bullish
		confidence.Positive = best.Score
	case "negative":
		label = models.Bearish
		confidence.Negative = best.Score
	default:
		label = models.Neutral
		confidence.Neutral = best.Score
	}

	narrative := fmt.Sprintf("AI sentiment analysis for %s (%s)", ticker.DisplayName(symbol), symbol)
	return models.Verdict{Label: label, Confidence: confidence, Analysis: narrative}, nil
}
