package domain

import "errors"

var (
	// ErrEmptyCorpus signals an index build over a corpus with no sentences.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrIndexLoad signals a missing, unreadable, or structurally invalid index artifact.
	ErrIndexLoad = errors.New("index load failed")
	// ErrNoMatch signals that no corpus entry could be matched against the query.
	// Expected per-query outcome, routed to the generative fallback.
	ErrNoMatch = errors.New("no match")
	// ErrGeneration signals a generative provider failure.
	ErrGeneration = errors.New("generation failed")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding provider error")
)
