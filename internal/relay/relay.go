// Package relay orchestrates the phone-to-chat message flow: polling the
// phone bridge, admitting one fresh message per tick, mirroring it into the
// bridge channel, tracking the pending request, and delivering the bot's
// settled answer back to the phone.
package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Bloomy-HackRPI/bloomy/internal/bot"
	"github.com/Bloomy-HackRPI/bloomy/internal/correlate"
	"github.com/Bloomy-HackRPI/bloomy/internal/dedup"
	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// TriggerPrefix marks the chat mirror of a relayed phone message. Messages
// carrying it are relay output, never bot responses, and are excluded from
// response correlation.
const TriggerPrefix = "📱 iMessage: "

// Bridge is the phone endpoint the relay polls and forwards to.
type Bridge interface {
	FetchUnread(ctx context.Context, maxCount int) ([]models.InboundItem, error)
	Send(ctx context.Context, to, text string) error
}

// ChannelSender posts a message to a chat channel.
type ChannelSender interface {
	Send(channelID, content string) (string, error)
}

// QueryRunner executes a stock analysis for a relayed message. The bot
// satisfies this.
type QueryRunner interface {
	HandleQuery(ctx context.Context, channelID, username, query string)
}

// Config holds the relay tunables.
type Config struct {
	// Phone is the recipient identifier for forwarded responses.
	Phone string
	// FetchLimit caps how many bridge messages one poll tick requests.
	FetchLimit int
	// MinSendGap suppresses phone forwards that follow the previous one
	// too closely.
	MinSendGap time.Duration
}

// Relay wires the deduplicator, the correlator and the bot together around
// one phone conversation.
type Relay struct {
	cfg        Config
	bridge     Bridge
	chat       ChannelSender
	runner     QueryRunner
	dedup      *dedup.Deduplicator
	correlator *correlate.Correlator
	// channelID resolves the bridge channel, empty until the chat session
	// is ready.
	channelID func() string

	mu          sync.Mutex
	lastForward time.Time
	now         func() time.Time
}

// New creates a Relay. The correlator is owned by the relay because settled
// answers flow straight back to the phone.
func New(cfg Config, corrCfg correlate.Config, bridge Bridge, chat ChannelSender, channelID func() string, runner QueryRunner, d *dedup.Deduplicator) *Relay {
	r := &Relay{
		cfg:       cfg,
		bridge:    bridge,
		chat:      chat,
		runner:    runner,
		dedup:     d,
		channelID: channelID,
		now:       time.Now,
	}
	r.correlator = correlate.New(corrCfg, correlate.DefaultClassifiers(), r.deliver)
	return r
}

// PollOnce runs one poll tick: fetch unread bridge messages, admit at most
// one fresh message, mirror it into the bridge channel and run the analysis.
// Returns the fetch error so the caller can count consecutive failures; a
// failed tick is treated as empty.
func (r *Relay) PollOnce(ctx context.Context) error {
	items, err := r.bridge.FetchUnread(ctx, r.cfg.FetchLimit)
	if err != nil {
		logger.Warn("Poll failed: %v", err)
		return err
	}

	item, ok := r.dedup.Admit(items)
	if !ok {
		return nil
	}
	logger.Info("Admitted phone message %s: %q", item.GUID, item.Text)

	requestKey := r.requestKey(item.Text)
	r.correlator.Track(requestKey)

	channelID := r.channelID()
	if channelID == "" {
		logger.Warn("Bridge channel unavailable, cannot mirror message %s", item.GUID)
		return nil
	}
	if _, err := r.chat.Send(channelID, fmt.Sprintf("%s%q", TriggerPrefix, item.Text)); err != nil {
		logger.Warn("Failed to mirror message %s into chat: %v", item.GUID, err)
	}

	r.runner.HandleQuery(ctx, channelID, "iMessage", item.Text)
	return nil
}

// requestKey derives the correlation key for a phone message: the resolved
// ticker when there is one, so the bot's "(SYM)" tags match directly, and a
// fresh id otherwise (matched through the sole-pending fallback).
func (r *Relay) requestKey(text string) string {
	if symbol, ok := ticker.Resolve(bot.CleanQuery(text)); ok {
		return symbol
	}
	return uuid.New().String()
}

// HandleBotMessage observes one self-authored chat message and forwards
// simple responses to the phone. Messages outside the bridge channel and the
// relay's own mirror messages are ignored.
func (r *Relay) HandleBotMessage(msg *discordgo.Message) {
	if msg.ChannelID != r.channelID() {
		return
	}
	if strings.HasPrefix(msg.Content, TriggerPrefix) {
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		return
	}

	switch r.correlator.Observe(msg.ID, msg.Content) {
	case correlate.OutcomeSimple:
		r.forwardEcho(msg.Content)
	case correlate.OutcomeCandidate:
		logger.Debug("Message %s is the current answer candidate", msg.ID)
	case correlate.OutcomeConfirmed:
		logger.Debug("Message %s confirmed a pending request", msg.ID)
	}
}

// deliver receives a settled final answer from the correlator. The correlator
// has already marked the message processed, so this send must never be
// suppressed: a settled answer is delivered exactly once or lost.
func (r *Relay) deliver(requestKey, messageID, content string) {
	logger.Info("Delivering settled answer for %s (message %s)", requestKey, messageID)

	r.mu.Lock()
	r.lastForward = r.now()
	r.mu.Unlock()

	r.send(content)
}

// forwardEcho sends a simple response to the phone, dropping it when it
// follows the previous forward too closely. The phone side renders at most
// one echo per gap; anything faster is the bot talking to itself.
func (r *Relay) forwardEcho(content string) {
	r.mu.Lock()
	now := r.now()
	if elapsed := now.Sub(r.lastForward); elapsed < r.cfg.MinSendGap {
		r.mu.Unlock()
		logger.Debug("Suppressing phone echo, last forward %v ago", elapsed)
		return
	}
	r.lastForward = now
	r.mu.Unlock()

	r.send(content)
}

func (r *Relay) send(content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := r.bridge.Send(ctx, r.cfg.Phone, content); err != nil {
		logger.Error("Failed to forward response to phone: %v", err)
		return
	}
	logger.Info("Forwarded response to phone (%d chars)", len(content))
}

// Sweep expires stale pending requests.
func (r *Relay) Sweep() {
	if n := r.correlator.Sweep(); n > 0 {
		logger.Info("Expired %d stale pending requests", n)
	}
}

// PendingCount reports how many requests are awaiting an answer.
func (r *Relay) PendingCount() int {
	return r.correlator.PendingCount()
}

// Stop cancels all pending settle timers.
func (r *Relay) Stop() {
	r.correlator.Stop()
}
