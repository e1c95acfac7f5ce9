package respond

import (
	"context"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Matcher finds the closest corpus sentence for a query.
// Returns domain.ErrNoMatch when nothing in the corpus can be scored.
type Matcher interface {
	Match(ctx context.Context, query string) (domain.Match, error)
}

// Generator produces a free-text answer via an external generative model.
// Failures wrap domain.ErrGeneration.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
