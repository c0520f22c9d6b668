package sentiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/ticker"
)

// CachedName annotates verdicts served from the cache.
const CachedName = "Cached Analysis"

// Poster forwards a completed analysis snapshot to the dashboard. Posting is
// best-effort; failures are logged and never affect the verdict.
type Poster interface {
	Post(ctx context.Context, record models.AnalysisRecord) error
}

// Result is a computed verdict plus its provenance.
type Result struct {
	Verdict models.Verdict
	// Method names the producing source, FallbackName, or CachedName.
	Method string
	Cached bool
	// Age is how long ago a cached verdict was originally computed.
	Age time.Duration
}

// Pipeline orchestrates cache lookup, source-chain iteration, fallback
// generation, cache write-back, and the dashboard forward.
type Pipeline struct {
	cache    *Cache
	sources  []Source
	fallback *Fallback
	poster   Poster
}

// NewPipeline creates a Pipeline. Sources are tried in the given priority
// order: cheap always-available sources belong first, paid or rate-limited
// sources last. poster may be nil when the dashboard is disabled.
func NewPipeline(cache *Cache, sources []Source, fallback *Fallback, poster Poster) *Pipeline {
	return &Pipeline{
		cache:    cache,
		sources:  sources,
		fallback: fallback,
		poster:   poster,
	}
}

// Analyze produces a verdict for the symbol. It always succeeds: a fresh
// cache hit is returned without touching the network; otherwise enabled
// sources are tried in order and the first success wins; total exhaustion
// produces a fallback verdict. The result is cached and forwarded to the
// dashboard either way.
func (p *Pipeline) Analyze(ctx context.Context, symbol string) Result {
	if entry, ok := p.cache.Get(symbol); ok {
		age, _ := p.cache.Age(symbol)
		logger.Info("Using cached verdict for %s (computed %v ago by %s)", symbol, age.Round(time.Second), entry.SourceName)
		result := Result{Verdict: entry.Verdict, Method: CachedName, Cached: true, Age: age}
		p.forward(ctx, symbol, result)
		return result
	}

	var verdict models.Verdict
	method := ""

	for _, source := range p.sources {
		if !source.Enabled() {
			logger.Debug("Source %s not configured, skipping", source.Name())
			continue
		}

		v, err := source.Analyze(ctx, symbol)
		if err != nil {
			if errors.Is(err, ErrModelWarming) {
				logger.Warn("Source %s attempt for %s: %v", source.Name(), symbol, err)
			} else {
				logger.Warn("Source %s failed for %s: %v", source.Name(), symbol, err)
			}
			continue
		}

		verdict = v
		method = source.Name()
		logger.Info("Source %s produced verdict for %s: %s", method, symbol, verdict.Label)
		break
	}

	if method == "" {
		verdict = p.fallback.Verdict(symbol)
		method = FallbackName
		logger.Info("All sources exhausted for %s, using fallback verdict: %s", symbol, verdict.Label)
	}

	p.cache.Put(symbol, verdict, method)

	result := Result{Verdict: verdict, Method: method}
	p.forward(ctx, symbol, result)
	return result
}

// forward posts the result snapshot to the dashboard collaborator.
func (p *Pipeline) forward(ctx context.Context, symbol string, result Result) {
	if p.poster == nil {
		return
	}

	record := models.AnalysisRecord{
		ID:         uuid.New().String(),
		Stock:      fmt.Sprintf("%s (%s)", ticker.DisplayName(symbol), symbol),
		Ticker:     symbol,
		Sentiment:  result.Verdict.Label.Display(),
		Confidence: result.Verdict.Confidence,
		Analysis:   result.Verdict.Analysis,
		Method:     result.Method,
		CreatedAt:  time.Now(),
	}

	if err := p.poster.Post(ctx, record); err != nil {
		logger.Warn("Could not send %s analysis to dashboard: %v", symbol, err)
	}
}
