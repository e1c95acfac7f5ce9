package faqbot

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/normalize"
)

type normalizeOptions = normalize.Options

func defaultNormalizeOptions() normalizeOptions {
	return normalize.DefaultOptions()
}

// Option configures the Client.
type Option func(*clientConfig)

// WithCorpus indexes the given sentences directly.
func WithCorpus(sentences ...string) Option {
	return func(c *clientConfig) { c.sentences = sentences }
}

// WithCorpusFile reads a text file, splits it into sentences, and indexes
// them.
func WithCorpusFile(path string) Option {
	return func(c *clientConfig) { c.corpusPath = path }
}

// WithIndexArtifact loads a prebuilt index artifact instead of building one.
func WithIndexArtifact(path string) Option {
	return func(c *clientConfig) { c.artifactPath = path }
}

// WithThreshold sets the similarity cutoff for retrieval. A score exactly
// equal to the threshold is a hit.
func WithThreshold(v float64) Option {
	return func(c *clientConfig) { c.threshold = v }
}

// WithGenerationTimeout bounds each generative call.
func WithGenerationTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.genTimeout = d }
}

// WithSpellCorrection enables query spell correction against the corpus
// vocabulary.
func WithSpellCorrection() Option {
	return func(c *clientConfig) { c.normalize.Correct = true }
}

// WithStopwords adds domain-specific stopwords on top of the built-in set.
func WithStopwords(words ...string) Option {
	return func(c *clientConfig) { c.normalize.CustomStopwords = words }
}

// WithGenerator installs a custom generative fallback.
func WithGenerator(g Generator) Option {
	return func(c *clientConfig) { c.generator = g }
}

// WithOpenAI installs an OpenAI-compatible generative fallback.
func WithOpenAI(apiKey, model string) Option {
	return func(c *clientConfig) {
		c.openaiKey = apiKey
		c.openaiModel = model
	}
}

// WithOpenAIBaseURL points the OpenAI-compatible provider at a different
// endpoint.
func WithOpenAIBaseURL(url string) Option {
	return func(c *clientConfig) { c.openaiBaseURL = url }
}

// WithOpenAIMaxTokens caps generated completions.
func WithOpenAIMaxTokens(n int) Option {
	return func(c *clientConfig) { c.openaiMaxTokens = n }
}

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
