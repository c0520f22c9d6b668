package sentiment

import (
	"strings"
	"testing"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

func TestFallbackKnownSymbol(t *testing.T) {
	f := NewFallback()

	verdict := f.Verdict("BBBY")
	if verdict.Label != models.VeryBearish {
		t.Errorf("Expected very_bearish for BBBY, got %s", verdict.Label)
	}
	if !strings.Contains(verdict.Analysis, "bankruptcy proceedings") {
		t.Errorf("Expected the known narrative, got %q", verdict.Analysis)
	}
	want := models.Confidence{Positive: 0.05, Negative: 0.85, Neutral: 0.10}
	if verdict.Confidence != want {
		t.Errorf("Expected %+v, got %+v", want, verdict.Confidence)
	}
}

func TestFallbackUnknownSymbolUsesGenericBands(t *testing.T) {
	// Pin the band selection to make the test deterministic.
	for i, wantLabel := range []models.SentimentLabel{models.SlightlyBullish, models.Neutral, models.SlightlyBearish} {
		f := NewFallback()
		idx := i
		f.pick = func(n int) int { return idx }

		verdict := f.Verdict("ZZZZ")
		if verdict.Label != wantLabel {
			t.Errorf("Band %d: expected %s, got %s", i, wantLabel, verdict.Label)
		}
		if !verdict.Label.Valid() {
			t.Errorf("Band %d label outside the enumerated set", i)
		}
	}
}

func TestFallbackNeverFails(t *testing.T) {
	f := NewFallback()
	for _, symbol := range []string{"AAPL", "GME", "XXXXX", ""} {
		verdict := f.Verdict(symbol)
		if err := verdict.Validate(); err != nil {
			t.Errorf("Fallback verdict for %q invalid: %v", symbol, err)
		}
	}
}
