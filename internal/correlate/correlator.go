// Package correlate decides which of several asynchronously-arriving bot
// messages is the authoritative final answer for an in-flight request, and
// delivers it exactly once.
//
// One trigger into the chat channel can provoke several bot messages: a
// working notice, a final formatted result, edits of that result, and
// unrelated traffic. Each request moves through a small state machine:
//
//	NONE → AWAITING (trigger sent) → CANDIDATE(msgID) → DELIVERED | EXPIRED
//
// A candidate is not forwarded immediately; a settle timer is armed and
// re-armed whenever a newer candidate replaces the current one. Only a
// candidate that survives the settle window untouched is delivered. A
// periodic sweep expires requests whose answer never arrived.
package correlate

import (
	"strings"
	"sync"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
)

// DeliverFunc forwards a settled candidate back toward the origin channel.
type DeliverFunc func(requestKey, messageID, content string)

type state int

const (
	stateAwaiting state = iota
	stateCandidate
)

type pendingRequest struct {
	key           string
	startedAt     time.Time
	state         state
	candidateID   string
	candidateText string
	settle        *time.Timer
}

// Config holds the correlator's tunable windows.
type Config struct {
	// SettleWindow is how long the latest candidate must remain current
	// before it is declared final.
	SettleWindow time.Duration
	// PendingTTL bounds how long a request may wait for any delivery.
	PendingTTL time.Duration
}

// Correlator owns the pending-request map and the processed-message set.
type Correlator struct {
	mu      sync.Mutex
	pending map[string]*pendingRequest
	// order holds pending keys oldest-first, so key matching is
	// deterministic when a message names more than one request.
	order       []string
	processed   map[string]struct{}
	cfg         Config
	deliver     DeliverFunc
	classifiers []Classifier
	now         func() time.Time
}

// New creates a Correlator. The deliver callback runs on the settle timer's
// goroutine and must not call back into the correlator.
func New(cfg Config, classifiers []Classifier, deliver DeliverFunc) *Correlator {
	return &Correlator{
		pending:     make(map[string]*pendingRequest),
		processed:   make(map[string]struct{}),
		cfg:         cfg,
		deliver:     deliver,
		classifiers: classifiers,
		now:         time.Now,
	}
}

// Track registers a just-sent trigger under requestKey and moves the request
// to AWAITING. Re-tracking an existing key restarts its clock and discards
// any candidate from the previous incarnation.
func (c *Correlator) Track(requestKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.pending[requestKey]; ok {
		if old.settle != nil {
			old.settle.Stop()
		}
	} else {
		c.order = append(c.order, requestKey)
	}
	c.pending[requestKey] = &pendingRequest{
		key:       requestKey,
		startedAt: c.now(),
		state:     stateAwaiting,
	}
	logger.Debug("Tracking request %s", requestKey)
}

// Outcome reports what Observe did with a message.
type Outcome int

const (
	// OutcomeIgnored: duplicate message id or unmatched working notice.
	OutcomeIgnored Outcome = iota
	// OutcomeConfirmed: a working notice confirmed an awaiting request.
	OutcomeConfirmed
	// OutcomeCandidate: the message became the current candidate for a request.
	OutcomeCandidate
	// OutcomeSimple: the message is not part of any correlation and should be
	// handled independently as a simple response.
	OutcomeSimple
)

// Observe classifies one bot message and advances the state machine.
// Message ids that already satisfied a delivery are never considered again,
// regardless of which path re-observes them.
func (c *Correlator) Observe(messageID, content string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, done := c.processed[messageID]; done {
		return OutcomeIgnored
	}

	class := ClassNone
	for _, cl := range c.classifiers {
		if got := cl.Classify(content); got != ClassNone {
			class = got
			break
		}
	}

	switch class {
	case ClassWorking:
		if entry := c.match(content); entry != nil {
			logger.Debug("Working notice confirmed request %s", entry.key)
			return OutcomeConfirmed
		}
		return OutcomeIgnored

	case ClassFinal:
		entry := c.match(content)
		if entry == nil {
			// A final-shaped message with no pending request: stale answer
			// from an expired request, or someone pasting an old result.
			logger.Debug("Final-shaped message %s matched no pending request", messageID)
			return OutcomeIgnored
		}
		c.setCandidate(entry, messageID, content)
		return OutcomeCandidate

	default:
		return OutcomeSimple
	}
}

// match finds the pending request whose key appears in the message, falling
// back to the sole pending request when exactly one is in flight. Bot
// messages always name the symbol as "(KEY)", so containment is sufficient.
// Keys are checked oldest-first; a message naming several pending requests
// matches the one tracked earliest.
func (c *Correlator) match(content string) *pendingRequest {
	for _, key := range c.order {
		if strings.Contains(content, "("+key+")") {
			return c.pending[key]
		}
	}
	if len(c.pending) == 1 {
		for _, entry := range c.pending {
			return entry
		}
	}
	return nil
}

// dropKey removes key from both the map and the order slice. Callers hold mu.
func (c *Correlator) dropKey(key string) {
	delete(c.pending, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// setCandidate installs msg as the current candidate and (re)arms the settle
// timer. A newer candidate always replaces the previous one; the previous
// timer is cancelled so a replaced candidate can never fire.
func (c *Correlator) setCandidate(entry *pendingRequest, messageID, content string) {
	if entry.settle != nil {
		entry.settle.Stop()
	}

	entry.state = stateCandidate
	entry.candidateID = messageID
	entry.candidateText = content

	key := entry.key
	entry.settle = time.AfterFunc(c.cfg.SettleWindow, func() {
		c.settleFired(key, messageID)
	})
	logger.Debug("Candidate %s set for request %s, settle timer armed", messageID, key)
}

// settleFired runs when a settle timer elapses. The candidate is forwarded
// only if it is still the most recent one recorded for its request.
func (c *Correlator) settleFired(requestKey, messageID string) {
	c.mu.Lock()

	entry, ok := c.pending[requestKey]
	if !ok || entry.candidateID != messageID {
		c.mu.Unlock()
		return
	}
	if _, done := c.processed[messageID]; done {
		c.mu.Unlock()
		return
	}

	c.processed[messageID] = struct{}{}
	content := entry.candidateText
	c.dropKey(requestKey)
	c.mu.Unlock()

	logger.Info("Request %s settled on message %s, delivering", requestKey, messageID)
	c.deliver(requestKey, messageID, content)
}

// Sweep force-expires pending requests older than the TTL, discarding them
// with no delivery. Returns the number of expired requests.
func (c *Correlator) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for key, entry := range c.pending {
		if now.Sub(entry.startedAt) <= c.cfg.PendingTTL {
			continue
		}
		if entry.settle != nil {
			entry.settle.Stop()
		}
		c.dropKey(key)
		expired++
		logger.Warn("Request %s expired after %v with no delivery", key, now.Sub(entry.startedAt))
	}
	return expired
}

// PendingCount returns the number of in-flight requests. Diagnostics only.
func (c *Correlator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop cancels all settle timers. Pending requests are abandoned; delivery is
// not guaranteed across shutdown.
func (c *Correlator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.pending {
		if entry.settle != nil {
			entry.settle.Stop()
		}
	}
	c.pending = make(map[string]*pendingRequest)
	c.order = nil
}
