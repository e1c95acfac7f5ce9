package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// artifactVersion guards against loading artifacts written by an
// incompatible build of the indexer.
const artifactVersion = 1

// artifact is the on-disk form of an Index.
type artifact struct {
	Version   int       `json:"version"`
	BuiltAt   time.Time `json:"built_at"`
	Sentences []string  `json:"sentences"`
	Terms     []string  `json:"terms"`
	IDF       []float64 `json:"idf"`
	Vectors   []Vector  `json:"vectors"`
}

// Save writes the index as a serialized artifact, creating parent
// directories as needed. A fresh process loads it without re-running the
// corpus build.
func (idx *Index) Save(path string) error {
	art := artifact{
		Version:   artifactVersion,
		BuiltAt:   time.Now().UTC(),
		Sentences: idx.sentences,
		Terms:     idx.terms,
		IDF:       idx.idf,
		Vectors:   idx.vectors,
	}
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads and validates an index artifact. Every failure mode (missing
// file, unreadable blob, structural mismatch) wraps domain.ErrIndexLoad so
// the caller can degrade to fallback-only serving instead of crashing.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %v: %w", path, err, domain.ErrIndexLoad)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %v: %w", path, err, domain.ErrIndexLoad)
	}

	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %v: %w", path, err, domain.ErrIndexLoad)
	}

	idx := &Index{
		sentences: art.Sentences,
		terms:     art.Terms,
		vocab:     make(map[string]int, len(art.Terms)),
		idf:       art.IDF,
		vectors:   art.Vectors,
	}
	for i, term := range art.Terms {
		idx.vocab[term] = i
	}
	return idx, nil
}

func (a *artifact) validate() error {
	if a.Version != artifactVersion {
		return fmt.Errorf("unsupported version %d", a.Version)
	}
	if len(a.Sentences) == 0 {
		return fmt.Errorf("artifact has no sentences")
	}
	if len(a.IDF) != len(a.Terms) {
		return fmt.Errorf("idf length %d does not match vocabulary size %d", len(a.IDF), len(a.Terms))
	}
	if len(a.Vectors) != len(a.Sentences) {
		return fmt.Errorf("vector count %d does not match sentence count %d", len(a.Vectors), len(a.Sentences))
	}
	dims := len(a.Terms)
	for i, v := range a.Vectors {
		if len(v.Indices) != len(v.Weights) {
			return fmt.Errorf("vector %d: %d indices vs %d weights", i, len(v.Indices), len(v.Weights))
		}
		prev := -1
		for _, dim := range v.Indices {
			if dim <= prev || dim >= dims {
				return fmt.Errorf("vector %d: dimension %d out of range", i, dim)
			}
			prev = dim
		}
	}
	return nil
}
