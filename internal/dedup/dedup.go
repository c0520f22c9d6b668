// Package dedup decides which polled phone messages are new.
//
// The phone bridge re-reports unread messages on every poll tick, so the same
// physical message is observed many times. Each message is keyed two ways: by
// its bridge GUID when present, and by a composite of normalized text and a
// seconds-resolution time bucket. Both keys are recorded on admission so that
// either representation of the same message is recognized as a duplicate on a
// later tick, including ticks whose downstream send is still in flight.
//
// The seen-set is monotonic for the process lifetime. Bounded memory growth
// is an accepted tradeoff for correct "seen before" semantics within one run.
package dedup

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// Deduplicator tracks which inbound items have already been acted upon.
type Deduplicator struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	freshness time.Duration
	now       func() time.Time
}

// New creates a Deduplicator. Items older than the freshness window are never
// admitted; this bounds how far back a restart or backlog can dredge up
// stale messages.
func New(freshness time.Duration) *Deduplicator {
	return &Deduplicator{
		seen:      make(map[string]struct{}),
		freshness: freshness,
		now:       time.Now,
	}
}

// guidKey returns the primary dedup key, or "" when the item has no GUID.
func guidKey(item models.InboundItem) string {
	if item.GUID == "" {
		return ""
	}
	return "G-" + item.GUID
}

// textTimeKey returns the secondary dedup key: normalized text plus a
// seconds-resolution time bucket.
func textTimeKey(item models.InboundItem) string {
	return fmt.Sprintf("T-%s-%d", strings.TrimSpace(item.Text), item.ObservedAt.Unix())
}

// Admit filters a poll tick's batch down to at most one unseen, recent item.
// Items are considered in arrival order; self-originated and empty items are
// skipped, as are items older than the freshness window. The first item whose
// primary or secondary key is unknown wins, and both of its keys are recorded
// immediately so a concurrent or subsequent tick cannot admit it again while
// the downstream forward is still in flight.
//
// Returns the admitted item and true, or a zero item and false when every
// candidate is a duplicate or stale.
func (d *Deduplicator) Admit(items []models.InboundItem) (models.InboundItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for _, item := range items {
		if item.FromMe || strings.TrimSpace(item.Text) == "" {
			continue
		}
		if now.Sub(item.ObservedAt) >= d.freshness {
			continue
		}

		gk := guidKey(item)
		tk := textTimeKey(item)

		if gk != "" {
			if _, ok := d.seen[gk]; ok {
				continue
			}
		}
		if _, ok := d.seen[tk]; ok {
			continue
		}

		if gk != "" {
			d.seen[gk] = struct{}{}
		}
		d.seen[tk] = struct{}{}
		return item, true
	}

	return models.InboundItem{}, false
}

// Size returns the number of recorded keys. Used for diagnostics only.
func (d *Deduplicator) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
