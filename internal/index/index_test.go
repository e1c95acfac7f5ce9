package index

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/normalize"
)

var testCorpus = []string{
	"The capital of Kenya is Nairobi.",
	"SHA covers inpatient and outpatient care.",
	"Members register using their national identity card.",
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(testCorpus, normalize.DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return idx
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(nil, normalize.DefaultOptions())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuild_TokenFreeCorpus(t *testing.T) {
	_, err := Build([]string{"123!", "???"}, normalize.DefaultOptions())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuild_Shape(t *testing.T) {
	idx := buildTestIndex(t)

	if idx.Len() != len(testCorpus) {
		t.Errorf("expected %d sentences, got %d", len(testCorpus), idx.Len())
	}
	if idx.Dimensions() == 0 {
		t.Error("expected nonzero vocabulary")
	}
	if got := idx.Sentence(0); got != testCorpus[0] {
		t.Errorf("sentence 0 not stored verbatim: %q", got)
	}
}

func TestSentenceVectors_UnitNorm(t *testing.T) {
	idx := buildTestIndex(t)
	for i := 0; i < idx.Len(); i++ {
		v := idx.SentenceVector(i)
		norm := math.Sqrt(v.Dot(v))
		if math.Abs(norm-1) > 1e-9 {
			t.Errorf("sentence %d vector norm = %v, want 1", i, norm)
		}
	}
}

func TestVectorize_SelfSimilarity(t *testing.T) {
	idx := buildTestIndex(t)
	opts := normalize.DefaultOptions()

	for i, sentence := range testCorpus {
		q := idx.Vectorize(normalize.Normalize(sentence, opts))
		sim := q.Dot(idx.SentenceVector(i))
		if math.Abs(sim-1) > 1e-9 {
			t.Errorf("self-similarity for sentence %d = %v, want 1", i, sim)
		}
	}
}

func TestVectorize_UnknownTokens(t *testing.T) {
	idx := buildTestIndex(t)
	v := idx.Vectorize([]string{"giraffe", "juggling"})
	if !v.IsZero() {
		t.Errorf("expected zero vector for unknown tokens, got %v", v)
	}
}

func TestVectorize_EmptyTokens(t *testing.T) {
	idx := buildTestIndex(t)
	if v := idx.Vectorize(nil); !v.IsZero() {
		t.Errorf("expected zero vector, got %v", v)
	}
}

func TestDot_Disjoint(t *testing.T) {
	a := Vector{Indices: []int{0, 2}, Weights: []float64{0.6, 0.8}}
	b := Vector{Indices: []int{1, 3}, Weights: []float64{0.6, 0.8}}
	if got := a.Dot(b); got != 0 {
		t.Errorf("expected 0 for disjoint vectors, got %v", got)
	}
}

func TestArtifact_RoundTrip(t *testing.T) {
	idx := buildTestIndex(t)
	path := filepath.Join(t.TempDir(), "models", "index.json")

	if err := idx.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Len() != idx.Len() {
		t.Errorf("expected %d sentences, got %d", idx.Len(), loaded.Len())
	}
	if loaded.Dimensions() != idx.Dimensions() {
		t.Errorf("expected %d dimensions, got %d", idx.Dimensions(), loaded.Dimensions())
	}

	// Loaded index must score queries identically.
	opts := normalize.DefaultOptions()
	q := normalize.Normalize(testCorpus[1], opts)
	want := idx.Vectorize(q).Dot(idx.SentenceVector(1))
	got := loaded.Vectorize(q).Dot(loaded.SentenceVector(1))
	if math.Abs(want-got) > 1e-12 {
		t.Errorf("score drift after reload: %v vs %v", want, got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, domain.ErrIndexLoad) {
		t.Errorf("expected ErrIndexLoad, got %v", err)
	}
}

func TestLoad_CorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, domain.ErrIndexLoad) {
		t.Errorf("expected ErrIndexLoad, got %v", err)
	}
}

func TestLoad_StructuralMismatch(t *testing.T) {
	cases := map[string]string{
		"idf/terms mismatch": `{"version":1,"sentences":["a"],"terms":["a","b"],"idf":[1.0],"vectors":[{"i":[],"w":[]}]}`,
		"vector count":       `{"version":1,"sentences":["a","b"],"terms":["a"],"idf":[1.0],"vectors":[{"i":[],"w":[]}]}`,
		"dimension range":    `{"version":1,"sentences":["a"],"terms":["a"],"idf":[1.0],"vectors":[{"i":[5],"w":[1.0]}]}`,
		"bad version":        `{"version":9,"sentences":["a"],"terms":["a"],"idf":[1.0],"vectors":[{"i":[],"w":[]}]}`,
		"no sentences":       `{"version":1,"sentences":[],"terms":["a"],"idf":[1.0],"vectors":[]}`,
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "index.json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, domain.ErrIndexLoad) {
			t.Errorf("%s: expected ErrIndexLoad, got %v", name, err)
		}
	}
}
