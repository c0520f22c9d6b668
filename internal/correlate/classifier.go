package correlate

import "strings"

// Class is the correlation-relevant category of a bot message.
type Class int

const (
	// ClassNone means the message is not part of any correlation; it is
	// handled independently as a simple response.
	ClassNone Class = iota
	// ClassWorking is a start-of-work marker confirming an awaiting request.
	ClassWorking
	// ClassFinal is a message matching the final formatted result shape.
	ClassFinal
)

// Classifier decides whether a bot message matches one expected shape.
// Each expected message format gets its own implementation, so new response
// formats can be added without touching the correlation state machine.
type Classifier interface {
	Classify(content string) Class
}

// WorkingNotice matches the loading message the bot posts before running an
// analysis ("🔍 Analyzing Apple (AAPL)...").
type WorkingNotice struct{}

func (WorkingNotice) Classify(content string) Class {
	if strings.Contains(content, "Analyzing") && strings.HasSuffix(strings.TrimSpace(content), "...") {
		return ClassWorking
	}
	return ClassNone
}

// FormattedVerdict matches the final analysis result: the edited message
// carrying the sentiment header and the confidence section.
type FormattedVerdict struct{}

func (FormattedVerdict) Classify(content string) Class {
	if strings.Contains(content, "**Overall Sentiment:**") && strings.Contains(content, "Confidence Scores") {
		return ClassFinal
	}
	return ClassNone
}

// DefaultClassifiers returns the classifier chain for the bot's current
// message formats, checked in order; the first non-ClassNone answer wins.
func DefaultClassifiers() []Classifier {
	return []Classifier{FormattedVerdict{}, WorkingNotice{}}
}
