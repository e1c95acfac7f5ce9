// Package index builds and serves the TF-IDF similarity index: a fixed
// vocabulary-weighted vector space over a sentence corpus. An Index is
// immutable once built and safe for unsynchronized concurrent reads.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/normalize"
)

// Vector is a sparse L2-normalized term-weight vector. Indices are vocabulary
// dimensions in strictly ascending order; absent dimensions are zero.
type Vector struct {
	Indices []int     `json:"i"`
	Weights []float64 `json:"w"`
}

// IsZero reports whether the vector has no nonzero components.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Dot computes the dot product of two sparse vectors. For unit vectors this
// is the cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] < other.Indices[j]:
			i++
		case v.Indices[i] > other.Indices[j]:
			j++
		default:
			sum += v.Weights[i] * other.Weights[j]
			i++
			j++
		}
	}
	return sum
}

// Index is the deployable similarity artifact: the corpus sentences, the
// fitted vocabulary with IDF weights, and one vector per sentence.
type Index struct {
	sentences []string
	terms     []string
	vocab     map[string]int
	idf       []float64
	vectors   []Vector
}

// Build fits an Index over corpus using the given normalization profile.
// Returns domain.ErrEmptyCorpus when the corpus has no sentences or
// normalization leaves no tokens to build a vocabulary from.
func Build(corpus []string, opts normalize.Options) (*Index, error) {
	if len(corpus) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	tokenized := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, sentence := range corpus {
		tokens := normalize.Normalize(sentence, opts)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, fmt.Errorf("corpus yields no tokens: %w", domain.ErrEmptyCorpus)
	}

	// Stable dimension order for reproducible artifacts.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	idx := &Index{
		sentences: append([]string(nil), corpus...),
		terms:     terms,
		vocab:     make(map[string]int, len(terms)),
		idf:       make([]float64, len(terms)),
	}

	n := float64(len(corpus))
	for i, term := range terms {
		idx.vocab[term] = i
		// Smoothed IDF, standard convention.
		idx.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	idx.vectors = make([]Vector, len(corpus))
	for i, tokens := range tokenized {
		idx.vectors[i] = idx.Vectorize(tokens)
	}

	return idx, nil
}

// Vectorize projects a token sequence into the fitted vector space using the
// index's vocabulary and IDF weights. The query never refits the vocabulary;
// tokens outside it contribute nothing. The result is L2-normalized, or the
// zero vector when no token is known.
func (idx *Index) Vectorize(tokens []string) Vector {
	counts := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if dim, ok := idx.vocab[tok]; ok {
			counts[dim]++
		}
		total++
	}
	if len(counts) == 0 || total == 0 {
		return Vector{}
	}

	dims := make([]int, 0, len(counts))
	for dim := range counts {
		dims = append(dims, dim)
	}
	sort.Ints(dims)

	vec := Vector{
		Indices: dims,
		Weights: make([]float64, len(dims)),
	}
	var norm float64
	for i, dim := range dims {
		tf := float64(counts[dim]) / float64(total)
		w := tf * idx.idf[dim]
		vec.Weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Weights {
			vec.Weights[i] /= norm
		}
	}
	return vec
}

// Len returns the number of corpus sentences.
func (idx *Index) Len() int { return len(idx.sentences) }

// Dimensions returns the vocabulary size.
func (idx *Index) Dimensions() int { return len(idx.terms) }

// Sentence returns the corpus sentence at position i.
func (idx *Index) Sentence(i int) string { return idx.sentences[i] }

// SentenceVector returns the stored vector for the sentence at position i.
func (idx *Index) SentenceVector(i int) Vector { return idx.vectors[i] }

// Terms returns the fitted vocabulary in dimension order. Callers must not
// mutate the returned slice.
func (idx *Index) Terms() []string { return idx.terms }
