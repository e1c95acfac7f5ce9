// Package matcher finds the corpus sentence closest to a query. Two variants
// exist behind the same Match signature: Lexical scores TF-IDF cosine against
// the similarity index, Semantic scores cosine over external embeddings. The
// variant is selected by configuration at composition time.
package matcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/index"
	"github.com/kailas-cloud/faqbot/internal/normalize"
)

// Lexical matches queries against the TF-IDF similarity index. Stateless per
// call and safe for concurrent use; the index is read-only.
type Lexical struct {
	idx    *index.Index
	opts   normalize.Options
	logger *zap.Logger
}

// NewLexical creates a lexical matcher. When spell correction is enabled and
// no corrector was supplied, the index vocabulary becomes the known-word
// dictionary, so corrections pull tokens toward scorable terms.
func NewLexical(idx *index.Index, opts normalize.Options, logger *zap.Logger) *Lexical {
	if opts.Correct && opts.Corrector == nil {
		opts.Corrector = normalize.NewCorrector(idx.Terms())
	}
	return &Lexical{idx: idx, opts: opts, logger: logger}
}

// Match normalizes the query, projects it into the fitted vector space, and
// returns the arg-max cosine sentence. Ties break toward the lowest corpus
// position. Returns domain.ErrNoMatch when the index is empty or every query
// token is unknown to the vocabulary.
func (m *Lexical) Match(_ context.Context, query string) (domain.Match, error) {
	if m.idx.Len() == 0 {
		return domain.Match{}, domain.ErrNoMatch
	}

	tokens := normalize.Normalize(query, m.opts)
	q := m.idx.Vectorize(tokens)
	if q.IsZero() {
		m.logger.Debug("query has no vocabulary overlap", zap.String("query", query))
		return domain.Match{}, domain.ErrNoMatch
	}

	best, bestScore := 0, q.Dot(m.idx.SentenceVector(0))
	for i := 1; i < m.idx.Len(); i++ {
		// Strict comparison keeps the first occurrence on equal scores.
		if score := q.Dot(m.idx.SentenceVector(i)); score > bestScore {
			best, bestScore = i, score
		}
	}

	return domain.Match{
		Position: best,
		Sentence: m.idx.Sentence(best),
		Score:    clamp01(bestScore),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
