// One-shot analysis tool: resolves a query to a ticker, runs the source
// chain once and prints the verdict. Useful for checking source credentials
// and classification bands without starting the relay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/config"
	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/sentiment"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-config path] <query>")
		fmt.Fprintln(os.Stderr, "  e.g. analyze apple, analyze AAPL, analyze \"how is tesla doing\"")
		os.Exit(2)
	}
	query := strings.Join(flag.Args(), " ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init("warn", cfg.Logging.Format)

	symbol, ok := ticker.Resolve(query)
	if !ok {
		log.Fatalf("Could not resolve %q to a ticker symbol", query)
	}

	pipeline := sentiment.NewPipeline(
		sentiment.NewCache(cfg.Sources.CacheTTL),
		[]sentiment.Source{
			sentiment.NewYahooSource(cfg.Sources.YahooBaseURL, cfg.Sources.Timeout),
			sentiment.NewMarketAuxSource(cfg.Sources.MarketAuxBaseURL, cfg.Sources.MarketAuxAPIKey, cfg.Sources.Timeout),
			sentiment.NewHuggingFaceSource(cfg.Sources.HuggingFaceBaseURL, cfg.Sources.HuggingFaceAPIKey, cfg.Sources.HuggingFaceModel, cfg.Sources.Timeout),
		},
		sentiment.NewFallback(),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	result := pipeline.Analyze(ctx, symbol)

	fmt.Printf("%s (%s)\n", ticker.DisplayName(symbol), symbol)
	fmt.Printf("  Sentiment:  %s\n", result.Verdict.Label.Display())
	fmt.Printf("  Confidence: +%.2f / -%.2f / =%.2f\n",
		result.Verdict.Confidence.Positive,
		result.Verdict.Confidence.Negative,
		result.Verdict.Confidence.Neutral)
	fmt.Printf("  Source:     %s\n", result.Method)
	fmt.Printf("  Analysis:   %s\n", result.Verdict.Analysis)
}
