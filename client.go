package faqbot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/corpus"
	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/index"
	"github.com/kailas-cloud/faqbot/internal/matcher"
	openaiTransport "github.com/kailas-cloud/faqbot/internal/transport/openai"
	"github.com/kailas-cloud/faqbot/internal/usecase/respond"
)

// Apology is the fixed reply returned when neither retrieval nor generation
// produced an answer.
const Apology = respond.Apology

// Source identifies which path produced a reply.
type Source string

const (
	// SourceRetrieval means the reply is a corpus sentence returned verbatim.
	SourceRetrieval Source = Source(domain.SourceRetrieval)
	// SourceGenerative means the reply came from the generative provider.
	SourceGenerative Source = Source(domain.SourceGenerative)
	// SourceFallback means every path failed and the fixed apology was returned.
	SourceFallback Source = Source(domain.SourceFallback)
)

// Reply is the engine's answer to a single question. Text is never empty.
type Reply struct {
	Text   string
	Source Source
	// Score is the best match similarity in [0,1], 0 when no match was found.
	Score float64
}

// Generator produces a free-form answer for a prompt. Implementations back
// the generative fallback path.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the embedded answer engine.
type Client struct {
	svc *respond.Service
	idx *index.Index
}

// New builds a Client from the given options. At least one answer path is
// required: a corpus (WithCorpus, WithCorpusFile), a prebuilt index
// (WithIndexArtifact), or a generator (WithGenerator, WithOpenAI).
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	idx, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	generator := cfg.generator
	if generator == nil && cfg.openaiModel != "" {
		generator = openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:    cfg.openaiKey,
			BaseURL:   cfg.openaiBaseURL,
			Model:     cfg.openaiModel,
			MaxTokens: cfg.openaiMaxTokens,
			Logger:    cfg.logger,
		})
	}

	if idx == nil && generator == nil {
		return nil, errors.New("faqbot: a corpus, an index artifact, or a generator is required")
	}

	// Pass nil interface (not typed nil pointer!) when a path is absent.
	var m respond.Matcher
	if idx != nil {
		m = matcher.NewLexical(idx, cfg.normalize, cfg.logger)
	}
	var g respond.Generator
	if generator != nil {
		g = generator
	}

	svc := respond.New(m, g, respond.Config{
		Threshold:         cfg.threshold,
		GenerationTimeout: cfg.genTimeout,
	}, cfg.logger)

	return &Client{svc: svc, idx: idx}, nil
}

func buildIndex(cfg *clientConfig) (*index.Index, error) {
	switch {
	case cfg.artifactPath != "":
		return index.Load(cfg.artifactPath)
	case cfg.corpusPath != "":
		sentences, err := corpus.FromFile(cfg.corpusPath)
		if err != nil {
			return nil, err
		}
		return index.Build(sentences, cfg.normalize)
	case len(cfg.sentences) > 0:
		return index.Build(cfg.sentences, cfg.normalize)
	default:
		return nil, nil
	}
}

// Ask answers a question. It never fails: unmatched questions go to the
// generative provider when one is configured, and any failure degrades to
// the fixed apology.
func (c *Client) Ask(ctx context.Context, question string) Reply {
	r := c.svc.Respond(ctx, question)
	return Reply{Text: r.Text, Source: Source(r.Source), Score: r.Score}
}

// CorpusSize returns the number of indexed sentences, 0 without an index.
func (c *Client) CorpusSize() int {
	if c.idx == nil {
		return 0
	}
	return c.idx.Len()
}

// Threshold returns the similarity cutoff in effect.
func (c *Client) Threshold() float64 { return c.svc.Threshold() }

// SaveIndex persists the built index as an artifact loadable with
// WithIndexArtifact.
func (c *Client) SaveIndex(path string) error {
	if c.idx == nil {
		return errors.New("faqbot: no index to save")
	}
	return c.idx.Save(path)
}

type clientConfig struct {
	sentences    []string
	corpusPath   string
	artifactPath string

	threshold  float64
	genTimeout time.Duration
	normalize  normalizeOptions

	generator       Generator
	openaiKey       string
	openaiBaseURL   string
	openaiModel     string
	openaiMaxTokens int

	logger *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		threshold: respond.DefaultThreshold,
		normalize: defaultNormalizeOptions(),
		logger:    zap.NewNop(),
	}
}
