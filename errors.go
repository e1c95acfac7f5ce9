package faqbot

import "github.com/kailas-cloud/faqbot/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyCorpus = domain.ErrEmptyCorpus
	ErrIndexLoad   = domain.ErrIndexLoad
	ErrNoMatch     = domain.ErrNoMatch
	ErrGeneration  = domain.ErrGeneration
)
