// Package discord wraps the chat-platform session: connection lifecycle,
// lookup of the named channels the relay and bot post to, and the send/edit
// primitives they build on.
package discord

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
)

// MessageHandler receives every message the gateway delivers. FromSelf is true
// when the bot itself authored the message; handlers that trigger on bot
// output (the relay's response correlation) need those, handlers that react to
// humans (the analysis commands) must skip them.
type MessageHandler func(msg *discordgo.Message, fromSelf bool)

// Client is a thin wrapper over a gateway session. It resolves the configured
// channels by name once the session is ready and fans incoming messages out to
// the registered handlers.
type Client struct {
	session      *discordgo.Session
	channelNames []string

	mu         sync.Mutex
	channelIDs map[string]string
	handlers   []MessageHandler
}

// New creates a client for the given bot token. channelNames lists the text
// channels the service posts to, matched case-insensitively across all guilds
// the bot is a member of.
func New(token string, channelNames ...string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	c := &Client{
		session:      session,
		channelNames: channelNames,
		channelIDs:   make(map[string]string),
	}
	session.AddHandler(c.onReady)
	session.AddHandler(c.onMessageCreate)
	session.AddHandler(c.onMessageUpdate)
	return c, nil
}

// OnMessage registers a handler for incoming messages. Must be called before
// Start.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Start opens the gateway connection.
func (c *Client) Start() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Close shuts the gateway connection down.
func (c *Client) Close() error {
	return c.session.Close()
}

// BotUserID returns the bot's own user id, empty before the session is ready.
func (c *Client) BotUserID() string {
	if c.session.State != nil && c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

// ChannelID returns the id of a configured named channel, or empty if the
// channel has not been found yet.
func (c *Client) ChannelID(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelIDs[strings.ToLower(name)]
}

// Send posts content to a channel and returns the created message id.
func (c *Client) Send(channelID, content string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// Edit replaces the content of an existing message.
func (c *Client) Edit(channelID, messageID, content string) error {
	_, err := c.session.ChannelMessageEdit(channelID, messageID, content)
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendToNamed posts content to a configured channel by name. A missing channel
// is logged and skipped rather than treated as an error: the named channels
// are conveniences, not part of the relay contract.
func (c *Client) SendToNamed(name, content string) {
	channelID := c.ChannelID(name)
	if channelID == "" {
		logger.Warn("Channel %q not found, dropping message", name)
		return
	}
	if _, err := c.Send(channelID, content); err != nil {
		logger.Warn("Failed to post to #%s: %v", name, err)
	}
}

func (c *Client) onReady(s *discordgo.Session, event *discordgo.Ready) {
	logger.Info("Connected to gateway as %s", event.User.Username)

	wanted := make(map[string]bool, len(c.channelNames))
	for _, name := range c.channelNames {
		wanted[strings.ToLower(name)] = true
	}

	for _, guild := range event.Guilds {
		channels, err := s.GuildChannels(guild.ID)
		if err != nil {
			logger.Warn("Failed to list channels for guild %s: %v", guild.ID, err)
			continue
		}
		for _, channel := range channels {
			if channel.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			name := strings.ToLower(channel.Name)
			if !wanted[name] {
				continue
			}
			c.mu.Lock()
			c.channelIDs[name] = channel.ID
			c.mu.Unlock()
			logger.Info("Found channel #%s (%s)", channel.Name, channel.ID)
		}
	}

	for name := range wanted {
		if c.ChannelID(name) == "" {
			logger.Warn("No channel named %q found in any guild", name)
		}
	}
}

func (c *Client) onMessageCreate(s *discordgo.Session, event *discordgo.MessageCreate) {
	c.dispatch(s, event.Message)
}

// onMessageUpdate lets edits flow through the same handler chain. The bot
// edits its loading message into the final verdict, so the relay's correlator
// only ever sees that verdict as an update.
func (c *Client) onMessageUpdate(s *discordgo.Session, event *discordgo.MessageUpdate) {
	c.dispatch(s, event.Message)
}

func (c *Client) dispatch(s *discordgo.Session, msg *discordgo.Message) {
	if msg == nil || msg.Author == nil {
		return
	}
	fromSelf := s.State != nil && s.State.User != nil && msg.Author.ID == s.State.User.ID

	c.mu.Lock()
	handlers := make([]MessageHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg, fromSelf)
	}
}
