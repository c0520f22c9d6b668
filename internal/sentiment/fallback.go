package sentiment

import (
	"fmt"
	"math/rand"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// FallbackName annotates verdicts produced without any live data source.
const FallbackName = "Market Intelligence"

// knownNarrative is the static verdict for a well-known symbol.
type knownNarrative struct {
	label      models.SentimentLabel
	confidence models.Confidence
	reason     string
}

// knownSymbols carries hand-maintained narratives for stocks users ask about
// most. Unknown symbols fall through to the generic bands.
var knownSymbols = map[string]knownNarrative{
	"BBBY": {models.VeryBearish, models.Confidence{Positive: 0.05, Negative: 0.85, Neutral: 0.10}, "bankruptcy proceedings"},
	"CVNA": {models.Bearish, models.Confidence{Positive: 0.15, Negative: 0.65, Neutral: 0.20}, "used car market downturn"},
	"NVDA": {models.Bullish, models.Confidence{Positive: 0.70, Negative: 0.10, Neutral: 0.20}, "strong AI demand"},
	"TSLA": {models.Neutral, models.Confidence{Positive: 0.40, Negative: 0.35, Neutral: 0.25}, "mixed electric vehicle outlook"},
	"AAPL": {models.SlightlyBullish, models.Confidence{Positive: 0.55, Negative: 0.25, Neutral: 0.20}, "stable tech performance"},
	"META": {models.Bullish, models.Confidence{Positive: 0.65, Negative: 0.20, Neutral: 0.15}, "digital advertising recovery"},
	"AMZN": {models.SlightlyBullish, models.Confidence{Positive: 0.50, Negative: 0.30, Neutral: 0.20}, "cloud growth continues"},
	"MSFT": {models.Bullish, models.Confidence{Positive: 0.60, Negative: 0.20, Neutral: 0.20}, "AI integration driving growth"},
	"GME":  {models.Neutral, models.Confidence{Positive: 0.35, Negative: 0.40, Neutral: 0.25}, "meme stock volatility"},
	"AMC":  {models.Bearish, models.Confidence{Positive: 0.20, Negative: 0.60, Neutral: 0.20}, "theater industry challenges"},
}

// genericBands are the neutral-leaning verdicts used for unknown symbols.
var genericBands = []struct {
	label      models.SentimentLabel
	confidence models.Confidence
}{
	{models.SlightlyBullish, models.Confidence{Positive: 0.45, Negative: 0.30, Neutral: 0.25}},
	{models.Neutral, models.Confidence{Positive: 0.35, Negative: 0.35, Neutral: 0.30}},
	{models.SlightlyBearish, models.Confidence{Positive: 0.30, Negative: 0.45, Neutral: 0.25}},
}

// Fallback produces a deterministic or heuristic verdict when the whole
// source chain is exhausted. It never fails.
type Fallback struct {
	// pick selects a generic band index; injectable for tests.
	pick func(n int) int
}

// NewFallback creates the fallback generator.
func NewFallback() *Fallback {
	return &Fallback{pick: rand.Intn}
}

// Verdict returns the static narrative for a known symbol, or a uniformly
// random generic band for an unknown one.
func (f *Fallback) Verdict(symbol string) models.Verdict {
	name := ticker.DisplayName(symbol)

	if known, ok := knownSymbols[symbol]; ok {
		return models.Verdict{
			Label:      known.label,
			Confidence: known.confidence,
			Analysis:   fmt.Sprintf("Market analysis for %s (%s): %s", name, symbol, known.reason),
		}
	}

	band := genericBands[f.pick(len(genericBands))]
	return models.Verdict{
		Label:      band.label,
		Confidence: band.confidence,
		Analysis:   fmt.Sprintf("Market analysis for %s (%s)", name, symbol),
	}
}
