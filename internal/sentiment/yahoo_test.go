package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

func chartServer(t *testing.T, previousClose, marketPrice float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("Expected chart path for AAPL, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"chart":{"result":[{"meta":{"previousClose":%f,"regularMarketPrice":%f}}]}}`,
			previousClose, marketPrice)
	}))
}

func TestYahooVeryBullishBand(t *testing.T) {
	// changePercent = (104 - 100) / 100 * 100 = 4.0 → very bullish
	server := chartServer(t, 100.0, 104.0)
	defer server.Close()

	source := NewYahooSource(server.URL, 5*time.Second)
	verdict, err := source.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if verdict.Label != models.VeryBullish {
		t.Errorf("Expected very_bullish, got %s", verdict.Label)
	}
	want := models.Confidence{Positive: 0.7, Negative: 0.1, Neutral: 0.2}
	if verdict.Confidence != want {
		t.Errorf("Expected confidence %+v, got %+v", want, verdict.Confidence)
	}
}

func TestClassifyPriceMoveBands(t *testing.T) {
	tests := []struct {
		change float64
		label  models.SentimentLabel
	}{
		{4.0, models.VeryBullish},
		{3.0, models.Bullish}, // boundary: > 3 is required
		{2.0, models.Bullish},
		{1.0, models.Neutral},
		{0.0, models.Neutral},
		{-1.0, models.Neutral},
		{-2.0, models.Bearish},
		{-3.0, models.Bearish},
		{-4.0, models.VeryBearish},
	}

	for _, tt := range tests {
		label, confidence := classifyPriceMove(tt.change)
		if label != tt.label {
			t.Errorf("classifyPriceMove(%.1f) = %s, expected %s", tt.change, label, tt.label)
		}
		sum := confidence.Positive + confidence.Negative + confidence.Neutral
		if sum < 0.99 || sum > 1.01 {
			t.Errorf("Band %s confidence triple sums to %f", label, sum)
		}
	}
}

func TestYahooNoPriceData(t *testing.T) {
	server := chartServer(t, 0, 0)
	defer server.Close()

	source := NewYahooSource(server.URL, 5*time.Second)
	if _, err := source.Analyze(context.Background(), "AAPL"); err == nil {
		t.Error("Expected error when price data is missing")
	}
}

func TestYahooServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewYahooSource(server.URL, 5*time.Second)
	if _, err := source.Analyze(context.Background(), "AAPL"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}
