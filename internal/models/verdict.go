// Package models defines the core domain entities for the Bloomy relay.
// These models represent inbound phone messages, sentiment verdicts, and the
// analysis snapshots forwarded to the dashboard.
//
// Terminology:
//   - Verdict: a sentiment classification for one ticker, with a confidence
//     triple and a human-readable narrative.
//   - InboundItem: one message pulled from the phone bridge during a poll tick.
package models

import "errors"

// SentimentLabel is the fixed set of sentiment classifications a verdict can carry.
type SentimentLabel string

const (
	VeryBullish     SentimentLabel = "very_bullish"
	Bullish         SentimentLabel = "bullish"
	SlightlyBullish SentimentLabel = "slightly_bullish"
	Neutral         SentimentLabel = "neutral"
	SlightlyBearish SentimentLabel = "slightly_bearish"
	Bearish         SentimentLabel = "bearish"
	VeryBearish     SentimentLabel = "very_bearish"
)

// Valid reports whether the label is a member of the fixed enumerated set.
func (l SentimentLabel) Valid() bool {
	switch l {
	case VeryBullish, Bullish, SlightlyBullish, Neutral, SlightlyBearish, Bearish, VeryBearish:
		return true
	}
	return false
}

// Display returns the user-facing rendering of the label, including the
// direction marker used in chat messages.
func (l SentimentLabel) Display() string {
	switch l {
	case VeryBullish:
		return "Very Bullish 🚀"
	case Bullish:
		return "Bullish 📈"
	case SlightlyBullish:
		return "Slightly Bullish 📈→"
	case SlightlyBearish:
		return "Slightly Bearish 📉→"
	case Bearish:
		return "Bearish 📉"
	case VeryBearish:
		return "Very Bearish 🚨"
	default:
		return "Neutral 📊"
	}
}

// Confidence holds the three non-negative scores attached to a verdict.
// The scores are produced from fixed bands that sum to 1, but consumers must
// not rely on an exact sum.
type Confidence struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Verdict is the result of analyzing one ticker.
type Verdict struct {
	Label      SentimentLabel `json:"label"`
	Confidence Confidence     `json:"confidence"`
	Analysis   string         `json:"analysis"`
}

// Validate checks that the verdict is internally consistent.
func (v *Verdict) Validate() error {
	if !v.Label.Valid() {
		return errors.New("label must be a member of the sentiment label set")
	}
	if v.Confidence.Positive < 0 || v.Confidence.Negative < 0 || v.Confidence.Neutral < 0 {
		return errors.New("confidence scores must not be negative")
	}
	if v.Analysis == "" {
		return errors.New("analysis text must not be empty")
	}
	return nil
}
