package matcher

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// Embedder vectorizes text via an external embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Semantic matches queries by cosine similarity over external embeddings.
// Corpus embeddings are computed once at construction and held immutably,
// so only the per-query embedding call touches the network.
type Semantic struct {
	sentences []string
	vectors   [][]float32 // unit-normalized, one per sentence
	embedder  Embedder
	logger    *zap.Logger
}

// NewSemantic embeds every corpus sentence up front. Construction fails if
// the corpus is empty or any embedding call fails; callers typically fall
// back to the lexical matcher in that case.
func NewSemantic(ctx context.Context, embedder Embedder, sentences []string, logger *zap.Logger) (*Semantic, error) {
	if len(sentences) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	vectors := make([][]float32, len(sentences))
	for i, s := range sentences {
		vec, err := embedder.Embed(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("embed corpus sentence %d: %w", i, err)
		}
		vectors[i] = unit(vec)
	}

	return &Semantic{
		sentences: append([]string(nil), sentences...),
		vectors:   vectors,
		embedder:  embedder,
		logger:    logger,
	}, nil
}

// Match embeds the query and returns the arg-max cosine sentence, ties
// broken toward the lowest corpus position. Embedding failures surface as
// errors so the router can route to the generative path.
func (m *Semantic) Match(ctx context.Context, query string) (domain.Match, error) {
	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return domain.Match{}, fmt.Errorf("embed query: %w", err)
	}
	q := unit(vec)
	if q == nil {
		m.logger.Debug("query produced a zero embedding", zap.String("query", query))
		return domain.Match{}, domain.ErrNoMatch
	}

	best, bestScore := 0, dot(q, m.vectors[0])
	for i := 1; i < len(m.vectors); i++ {
		if score := dot(q, m.vectors[i]); score > bestScore {
			best, bestScore = i, score
		}
	}

	return domain.Match{
		Position: best,
		Sentence: m.sentences[best],
		Score:    clamp01(bestScore),
	}, nil
}

// unit returns the L2-normalized copy of v, or nil for a zero vector.
func unit(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
