package matcher

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

// --- Tests ---

func newTestSemantic(t *testing.T, emb *mockEmbedder) *Semantic {
	t.Helper()
	m, err := NewSemantic(context.Background(), emb, []string{"alpha", "beta"}, zap.NewNop())
	if err != nil {
		t.Fatalf("new semantic: %v", err)
	}
	return m
}

func TestSemantic_EmbedsCorpusOnce(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
	}}
	newTestSemantic(t, emb)

	if emb.calls != 2 {
		t.Errorf("expected 2 corpus embedding calls, got %d", emb.calls)
	}
}

func TestSemantic_MatchesClosestSentence(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"query": {0.2, 0.9, 0},
	}}
	m := newTestSemantic(t, emb)

	got, err := m.Match(context.Background(), "query")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if got.Position != 1 || got.Sentence != "beta" {
		t.Errorf("expected beta at position 1, got %+v", got)
	}
	if got.Score <= 0.9 || got.Score > 1 {
		t.Errorf("unexpected score %v", got.Score)
	}
}

func TestSemantic_IdenticalEmbeddingScoresOne(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {3, 4, 0},
		"beta":  {0, 0, 1},
		"query": {6, 8, 0}, // same direction as alpha
	}}
	m := newTestSemantic(t, emb)

	got, err := m.Match(context.Background(), "query")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if got.Position != 0 {
		t.Errorf("expected position 0, got %d", got.Position)
	}
	if math.Abs(got.Score-1) > 1e-6 {
		t.Errorf("expected score 1, got %v", got.Score)
	}
}

func TestSemantic_ZeroQueryEmbeddingNoMatch(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
	}}
	m := newTestSemantic(t, emb)

	_, err := m.Match(context.Background(), "unmapped")
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestSemantic_EmptyCorpus(t *testing.T) {
	_, err := NewSemantic(context.Background(), &mockEmbedder{}, nil, zap.NewNop())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestSemantic_CorpusEmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{err: errors.New("provider down")}
	_, err := NewSemantic(context.Background(), emb, []string{"alpha"}, zap.NewNop())
	if err == nil {
		t.Error("expected construction to fail when corpus embedding fails")
	}
}

func TestSemantic_QueryEmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
	}}
	m := newTestSemantic(t, emb)

	emb.err = errors.New("provider down")
	if _, err := m.Match(context.Background(), "query"); err == nil {
		t.Error("expected error when query embedding fails")
	}
}
