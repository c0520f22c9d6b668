// Package sentiment turns a ticker symbol into a sentiment verdict by trying
// an ordered chain of data sources, caching results, and degrading to
// heuristic data when every live source fails.
package sentiment

import (
	"context"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// Source is one pluggable sentiment provider. Sources are tried in chain
// order; the first success short-circuits the rest.
type Source interface {
	// Name identifies the source in verdict annotations and attempt logs.
	Name() string
	// Enabled reports whether the source's prerequisite configuration
	// (typically an API credential) is present.
	Enabled() bool
	// Analyze produces a verdict for the ticker or fails. A failure is an
	// attempt, not an error condition; the chain moves on.
	Analyze(ctx context.Context, symbol string) (models.Verdict, error)
}
