// Command faqbot-index builds the similarity index artifact from a corpus
// file. The server only ever loads the artifact; building happens offline.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/config"
	"github.com/kailas-cloud/faqbot/internal/corpus"
	"github.com/kailas-cloud/faqbot/internal/index"
	logpkg "github.com/kailas-cloud/faqbot/internal/logger"
)

func main() {
	corpusPath := flag.String("corpus", "corpus.txt", "path to the corpus text file")
	out := flag.String("out", "", "artifact output path (default: index.artifact from config)")
	flag.Parse()

	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	artifact := *out
	if artifact == "" {
		artifact = cfg.Index.Artifact
	}

	sentences, err := corpus.FromFile(*corpusPath)
	if err != nil {
		logger.Fatal("Failed to read corpus", zap.String("path", *corpusPath), zap.Error(err))
	}
	logger.Info("Corpus loaded",
		zap.String("path", *corpusPath),
		zap.Int("sentences", len(sentences)),
	)

	idx, err := index.Build(sentences, cfg.Normalize.Options())
	if err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}

	if err := idx.Save(artifact); err != nil {
		logger.Fatal("Failed to save index artifact", zap.String("path", artifact), zap.Error(err))
	}

	logger.Info("Index artifact written",
		zap.String("path", artifact),
		zap.Int("sentences", idx.Len()),
		zap.Int("dimensions", idx.Dimensions()),
	)
}
