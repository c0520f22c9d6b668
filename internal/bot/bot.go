// Package bot implements the chat-facing analysis behavior: the !ping and
// !stock commands, mention handling with question-word cleanup, the loading
// message that gets edited into the final formatted verdict, and the summary
// echo into the response channel.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/sentiment"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// Messenger is the subset of the chat client the bot needs.
type Messenger interface {
	Send(channelID, content string) (string, error)
	Edit(channelID, messageID, content string) error
}

// Analyzer produces a sentiment verdict for a ticker symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) sentiment.Result
}

// MentionRecorder captures the text of the latest mention for the dashboard.
// Recording is best-effort.
type MentionRecorder interface {
	PostMention(ctx context.Context, text string) error
}

var (
	mentionToken = regexp.MustCompile(`<@!?\d+>`)
	// Filler that users wrap around a stock name when asking a question.
	questionWords = regexp.MustCompile(`(?i)\b(how is|how's|hows|what is|what's|whats|doing|going|today|the|stock|about)\b`)
)

// Bot reacts to chat messages and runs analyses through the pipeline.
type Bot struct {
	messenger Messenger
	analyzer  Analyzer
	recorder  MentionRecorder
	// summarize posts one line to the response channel; nil disables it.
	summarize func(content string)
	// selfID resolves the bot's own user id, which is unknown until the
	// gateway session is ready.
	selfID func() string
}

// New creates a Bot. recorder and summarize may be nil.
func New(messenger Messenger, analyzer Analyzer, recorder MentionRecorder, summarize func(content string), selfID func() string) *Bot {
	return &Bot{
		messenger: messenger,
		analyzer:  analyzer,
		recorder:  recorder,
		summarize: summarize,
		selfID:    selfID,
	}
}

// HandleMessage processes one human-authored chat message. Self-authored
// messages must not reach here; the caller dispatches those to the relay.
func (b *Bot) HandleMessage(ctx context.Context, msg *discordgo.Message) {
	content := strings.TrimSpace(msg.Content)

	switch {
	case content == "!ping":
		if _, err := b.messenger.Send(msg.ChannelID, "Kachow!"); err != nil {
			logger.Warn("Failed to reply to ping: %v", err)
		}
		return

	case strings.HasPrefix(content, "!stock "):
		query := strings.TrimSpace(strings.TrimPrefix(content, "!stock "))
		b.runQuery(ctx, msg.ChannelID, msg.Author.Username, query)
		return
	}

	if !b.isMention(msg) {
		return
	}

	b.recordMention(ctx, content)

	// A mention without a recognizable stock is small talk, not an error.
	symbol, ok := ticker.Resolve(CleanQuery(content))
	if !ok {
		if _, err := b.messenger.Send(msg.ChannelID, "Kachow!"); err != nil {
			logger.Warn("Failed to reply to mention: %v", err)
		}
		return
	}
	b.analyze(ctx, msg.ChannelID, msg.Author.Username, symbol)
}

// HandleQuery runs an analysis for a query that arrived outside chat, such as
// a relayed phone message. username labels the summary line.
func (b *Bot) HandleQuery(ctx context.Context, channelID, username, query string) {
	b.runQuery(ctx, channelID, username, CleanQuery(query))
}

func (b *Bot) runQuery(ctx context.Context, channelID, username, query string) {
	symbol, ok := ticker.Resolve(query)
	if !ok {
		reply := "I couldn't find a stock in that. Try a ticker symbol like `AAPL` or a company name like `apple`."
		if _, err := b.messenger.Send(channelID, reply); err != nil {
			logger.Warn("Failed to send guidance reply: %v", err)
		}
		return
	}
	b.analyze(ctx, channelID, username, symbol)
}

func (b *Bot) analyze(ctx context.Context, channelID, username, symbol string) {
	display := ticker.DisplayName(symbol)
	loadingID, err := b.messenger.Send(channelID, LoadingText(display, symbol))
	if err != nil {
		logger.Warn("Failed to post loading message for %s: %v", symbol, err)
		return
	}

	result := b.analyzer.Analyze(ctx, symbol)

	if err := b.messenger.Edit(channelID, loadingID, FormatVerdict(display, symbol, result)); err != nil {
		logger.Warn("Failed to edit in verdict for %s: %v", symbol, err)
	}

	if b.summarize != nil {
		b.summarize(fmt.Sprintf("**%s analyzed %s (%s):** %s",
			username, display, symbol, result.Verdict.Label.Display()))
	}
}

// isMention reports whether the message addresses the bot, either through a
// platform mention or by name.
func (b *Bot) isMention(msg *discordgo.Message) bool {
	self := b.selfID()
	for _, user := range msg.Mentions {
		if user != nil && user.ID == self {
			return true
		}
	}
	return strings.Contains(strings.ToLower(msg.Content), "bloomy")
}

func (b *Bot) recordMention(ctx context.Context, text string) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.PostMention(ctx, text); err != nil {
		logger.Debug("Failed to record mention: %v", err)
	}
}

// CleanQuery strips mention tokens, the bot's name, and question filler from a
// message, leaving the part that names a stock. Returns "" for pure small
// talk.
func CleanQuery(content string) string {
	s := mentionToken.ReplaceAllString(content, " ")
	s = strings.NewReplacer("bloomy", " ", "Bloomy", " ", "BLOOMY", " ").Replace(s)
	s = questionWords.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "?", " ")
	return strings.Join(strings.Fields(s), " ")
}

// LoadingText is the start-of-work message posted before an analysis runs.
// The trailing ellipsis and the parenthesized symbol are load-bearing: the
// relay's correlator recognizes both.
func LoadingText(display, symbol string) string {
	return fmt.Sprintf("🔍 Analyzing %s (%s)...", display, symbol)
}

// FormatVerdict renders a result as the final chat message. The sentiment
// header and the confidence section mark the message as a final answer for
// the relay's correlator.
func FormatVerdict(display, symbol string, result sentiment.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 **%s (%s) Analysis**\n\n", display, symbol)
	fmt.Fprintf(&sb, "**Overall Sentiment:** %s\n\n", result.Verdict.Label.Display())
	sb.WriteString("**Confidence Scores:**\n")
	fmt.Fprintf(&sb, "🟢 Positive: %.1f%%\n", result.Verdict.Confidence.Positive*100)
	fmt.Fprintf(&sb, "🔴 Negative: %.1f%%\n", result.Verdict.Confidence.Negative*100)
	fmt.Fprintf(&sb, "⚪ Neutral: %.1f%%\n\n", result.Verdict.Confidence.Neutral*100)
	fmt.Fprintf(&sb, "**Analysis:** %s\n\n", result.Verdict.Analysis)

	if result.Cached {
		fmt.Fprintf(&sb, "*Source: %s (%v old)*", result.Method, result.Age.Round(time.Second))
	} else {
		fmt.Fprintf(&sb, "*Source: %s*", result.Method)
	}
	return sb.String()
}
