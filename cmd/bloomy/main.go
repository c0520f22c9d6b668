package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Bloomy-HackRPI/bloomy/internal/alert"
	"github.com/Bloomy-HackRPI/bloomy/internal/bot"
	"github.com/Bloomy-HackRPI/bloomy/internal/config"
	"github.com/Bloomy-HackRPI/bloomy/internal/correlate"
	"github.com/Bloomy-HackRPI/bloomy/internal/dashboard"
	"github.com/Bloomy-HackRPI/bloomy/internal/database"
	"github.com/Bloomy-HackRPI/bloomy/internal/dedup"
	"github.com/Bloomy-HackRPI/bloomy/internal/discord"
	"github.com/Bloomy-HackRPI/bloomy/internal/imessage"
	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/relay"
	"github.com/Bloomy-HackRPI/bloomy/internal/sentiment"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Dashboard: HTTP server plus the client the pipeline posts through
	var dashServer *dashboard.Server
	var dashClient *dashboard.Client
	if cfg.Dashboard.Enabled {
		db, err := database.Open(cfg.Dashboard.DBPath)
		if err != nil {
			logger.Fatal("Failed to open analysis history database: %v", err)
		}
		dashServer = dashboard.NewServer(db)
		go func() {
			if err := dashServer.Start(cfg.Dashboard.ListenAddr); err != nil {
				logger.Error("Dashboard server stopped: %v", err)
			}
		}()
	}
	if cfg.Dashboard.IngestURL != "" {
		dashClient = dashboard.NewClient(cfg.Dashboard.IngestURL, 10*time.Second)
	}

	// Analysis pipeline: prioritized source chain with cache and fallback
	sources := []sentiment.Source{
		sentiment.NewYahooSource(cfg.Sources.YahooBaseURL, cfg.Sources.Timeout),
		sentiment.NewMarketAuxSource(cfg.Sources.MarketAuxBaseURL, cfg.Sources.MarketAuxAPIKey, cfg.Sources.Timeout),
		sentiment.NewHuggingFaceSource(cfg.Sources.HuggingFaceBaseURL, cfg.Sources.HuggingFaceAPIKey, cfg.Sources.HuggingFaceModel, cfg.Sources.Timeout),
	}
	var poster sentiment.Poster
	if dashClient != nil {
		poster = dashClient
	}
	pipeline := sentiment.NewPipeline(
		sentiment.NewCache(cfg.Sources.CacheTTL),
		sources,
		sentiment.NewFallback(),
		poster,
	)

	// Phone bridge client
	bridge := imessage.NewClient(cfg.IMessage.BridgeURL, cfg.IMessage.Timeout)

	// Chat session
	chat, err := discord.New(cfg.Discord.Token, cfg.Discord.BridgeChannel, cfg.Discord.ResponseChannel)
	if err != nil {
		logger.Fatal("Failed to create chat client: %v", err)
	}

	var recorder bot.MentionRecorder
	if dashClient != nil {
		recorder = dashClient
	}
	summarize := func(content string) {
		chat.SendToNamed(cfg.Discord.ResponseChannel, content)
	}
	analysisBot := bot.New(chat, pipeline, recorder, summarize, chat.BotUserID)

	rel := relay.New(
		relay.Config{
			Phone:      cfg.IMessage.Phone,
			FetchLimit: cfg.IMessage.FetchLimit,
			MinSendGap: cfg.IMessage.MinSendGap,
		},
		correlate.Config{
			SettleWindow: cfg.Relay.SettleWindow,
			PendingTTL:   cfg.Relay.PendingTTL,
		},
		bridge,
		chat,
		func() string { return chat.ChannelID(cfg.Discord.BridgeChannel) },
		analysisBot,
		dedup.New(cfg.IMessage.FreshnessWindow),
	)
	defer rel.Stop()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	// Route gateway messages: our own output feeds the correlator, everyone
	// else's feeds the command handlers.
	chat.OnMessage(func(msg *discordgo.Message, fromSelf bool) {
		if fromSelf {
			rel.HandleBotMessage(msg)
			return
		}
		analysisBot.HandleMessage(ctx, msg)
	})

	if err := chat.Start(); err != nil {
		logger.Fatal("Failed to connect to chat gateway: %v", err)
	}
	defer func() {
		if err := chat.Close(); err != nil {
			logger.Error("Failed to close chat session: %v", err)
		}
	}()

	// Operator alerts
	var notifier *alert.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = alert.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram notifier: %v", err)
		}
		logger.Info("Telegram notifier initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	logger.Info("Starting relay (poll: %v, settle: %v, pending TTL: %v, freshness: %v)",
		cfg.IMessage.PollInterval,
		cfg.Relay.SettleWindow,
		cfg.Relay.PendingTTL,
		cfg.IMessage.FreshnessWindow,
	)

	pollTicker := time.NewTicker(cfg.IMessage.PollInterval)
	defer pollTicker.Stop()
	sweepTicker := time.NewTicker(cfg.Relay.SweepInterval)
	defer sweepTicker.Stop()

	consecutiveFailures := 0

	handlePollResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures == 1 && notifier != nil {
				if sendErr := notifier.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
		} else {
			if consecutiveFailures > 0 && notifier != nil {
				if sendErr := notifier.SendRecovery(consecutiveFailures); sendErr != nil {
					logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
				}
			}
			consecutiveFailures = 0
		}
	}

	// Run initial poll immediately
	handlePollResult(rel.PollOnce(ctx))

	for {
		select {
		case <-ctx.Done():
			shutdown(dashServer)
			logger.Info("Service stopped")
			return

		case <-pollTicker.C:
			handlePollResult(rel.PollOnce(ctx))

		case <-sweepTicker.C:
			rel.Sweep()
		}
	}
}

func shutdown(dashServer *dashboard.Server) {
	if dashServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dashServer.Stop(ctx); err != nil {
		logger.Error("Failed to stop dashboard server: %v", err)
	}
}
