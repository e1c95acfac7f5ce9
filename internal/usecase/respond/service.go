// Package respond routes a query between the retrieval and generative paths.
// The routing contract: one retrieval attempt, then at most one generative
// attempt, and the caller always receives a reply, never an error.
package respond

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/metrics"
)

// Apology is the fixed reply used when neither retrieval nor generation
// produced an answer. Never empty, never a raw error.
const Apology = "I'm sorry, I don't understand your request. Please try rephrasing."

// DefaultThreshold is the similarity cutoff used when no deployment profile
// overrides it. Deployments observed in production run 0.6 or 0.2 depending
// on corpus density; the value is configuration, not a constant of the
// algorithm.
const DefaultThreshold = 0.6

// Config holds routing parameters.
type Config struct {
	// Threshold is the minimum similarity for a retrieval hit. A score
	// exactly equal to the threshold is a hit (inclusive comparison).
	Threshold float64
	// GenerationTimeout bounds the single generative call. Zero means the
	// request context's own deadline applies.
	GenerationTimeout time.Duration
}

// Service is the routing engine. Stateless between calls and safe for
// concurrent use.
type Service struct {
	matcher    Matcher
	generator  Generator
	threshold  float64
	genTimeout time.Duration
	logger     *zap.Logger
}

// New creates the routing service. matcher may be nil when the index failed
// to load (fallback-only mode); generator may be nil when no provider is
// configured. Either way Respond keeps returning text.
func New(matcher Matcher, generator Generator, cfg Config, logger *zap.Logger) *Service {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		matcher:    matcher,
		generator:  generator,
		threshold:  threshold,
		genTimeout: cfg.GenerationTimeout,
		logger:     logger,
	}
}

// Threshold returns the configured similarity cutoff.
func (s *Service) Threshold() float64 { return s.threshold }

// Respond answers a query: the best corpus match above the threshold is
// returned verbatim, anything else goes to the generative provider, and any
// failure degrades to the fixed apology.
func (s *Service) Respond(ctx context.Context, query string) domain.Reply {
	query = strings.TrimSpace(query)

	if s.matcher != nil {
		match, err := s.matcher.Match(ctx, query)
		switch {
		case err == nil:
			metrics.MatchScore.Observe(match.Score)
			if match.Score >= s.threshold {
				metrics.RepliesTotal.WithLabelValues(string(domain.SourceRetrieval)).Inc()
				return domain.Reply{
					Text:   match.Sentence,
					Source: domain.SourceRetrieval,
					Score:  match.Score,
				}
			}
			s.logger.Debug("similarity below threshold",
				zap.Float64("score", match.Score),
				zap.Float64("threshold", s.threshold),
			)
			return s.generate(ctx, query, match.Score)
		case errors.Is(err, domain.ErrNoMatch):
			return s.generate(ctx, query, 0)
		default:
			s.logger.Warn("matcher failed, routing to generative path", zap.Error(err))
			return s.generate(ctx, query, 0)
		}
	}

	// Index unavailable at startup: fallback-only mode.
	return s.generate(ctx, query, 0)
}

// generate performs the single generative attempt. score carries the best
// similarity seen for observability; it is not retried against.
func (s *Service) generate(ctx context.Context, query string, score float64) domain.Reply {
	if s.generator == nil {
		s.logger.Warn("no generative provider configured, returning apology")
		metrics.RepliesTotal.WithLabelValues(string(domain.SourceFallback)).Inc()
		return domain.Reply{Text: Apology, Source: domain.SourceFallback, Score: score}
	}

	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, query)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.logger.Error("generation failed", zap.Error(err))
		} else {
			s.logger.Warn("generator returned empty text")
		}
		metrics.RepliesTotal.WithLabelValues(string(domain.SourceFallback)).Inc()
		return domain.Reply{Text: Apology, Source: domain.SourceFallback, Score: score}
	}

	metrics.RepliesTotal.WithLabelValues(string(domain.SourceGenerative)).Inc()
	return domain.Reply{Text: text, Source: domain.SourceGenerative, Score: score}
}
