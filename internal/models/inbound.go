package models

import "time"

// InboundItem is one message observed on the phone bridge during a poll tick.
// Items are created by the bridge client, passed through deduplication once,
// and then discarded; they are never mutated.
type InboundItem struct {
	// GUID is the bridge's stable identifier for the message. May be empty,
	// in which case deduplication falls back to a text+time-bucket key.
	GUID       string
	Text       string
	ObservedAt time.Time
	// FromMe marks messages the bridge sent on our behalf. Self-originated
	// items are never admitted.
	FromMe bool
}
