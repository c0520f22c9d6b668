package models

import (
	"errors"
	"time"
)

// AnalysisRecord is the snapshot the pipeline forwards to the dashboard after
// each completed analysis. The dashboard keeps the latest record in memory for
// GET /api/analysis and appends every record to the history store.
type AnalysisRecord struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Stock      string     `json:"stock"` // "Apple (AAPL)" display form
	Ticker     string     `json:"ticker" gorm:"index"`
	Sentiment  string     `json:"sentiment"` // display form of the label
	Confidence Confidence `json:"confidence" gorm:"embedded;embeddedPrefix:confidence_"`
	Analysis   string     `json:"analysis"`
	Method     string     `json:"method"` // name of the source that produced the verdict
	CreatedAt  time.Time  `json:"timestamp"`
}

// Validate checks that all record fields are present.
func (r *AnalysisRecord) Validate() error {
	if r.Ticker == "" {
		return errors.New("ticker must not be empty")
	}
	if r.Sentiment == "" {
		return errors.New("sentiment must not be empty")
	}
	if r.Method == "" {
		return errors.New("method must not be empty")
	}
	return nil
}
