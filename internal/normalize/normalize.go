// Package normalize turns raw text into a deterministic token sequence for
// vectorization. Every stage is a pure function; the pipeline order is fixed
// and individual stages are toggled through Options.
package normalize

import (
	"regexp"
	"strings"
)

// Options toggles the normalization stages. Stages always run in the same
// order: lowercase, contraction expansion, special-character removal,
// tokenization, spell correction, lemmatization, stop-word removal.
type Options struct {
	// Expand replaces contractions ("isn't" -> "is not") from a static table.
	Expand bool
	// RemoveSpecial strips non-alphanumeric characters and digit runs.
	RemoveSpecial bool
	// Correct applies per-token spell correction. Requires Corrector;
	// a nil Corrector makes this stage a no-op.
	Correct bool
	// Lemmatize reduces tokens to a dictionary base form.
	Lemmatize bool
	// RemoveStops drops tokens found in the builtin English stop-word set,
	// extended with CustomStopwords.
	RemoveStops bool
	// CustomStopwords are additional stop words removed when RemoveStops is set.
	CustomStopwords []string
	// Corrector supplies the known-word dictionary for the Correct stage.
	Corrector *Corrector
}

// DefaultOptions mirrors the preprocessing profile used for index builds:
// everything on except spell correction, which is opt-in because it is the
// only stage whose output depends on the corpus vocabulary.
func DefaultOptions() Options {
	return Options{
		Expand:        true,
		RemoveSpecial: true,
		Lemmatize:     true,
		RemoveStops:   true,
	}
}

var (
	punctRe = regexp.MustCompile(`[^\w\s]`)
	digitRe = regexp.MustCompile(`\d+`)
)

// Normalize converts text into a token sequence according to opts.
// It is a pure function of (text, opts): no hidden state, no errors.
// Malformed or empty input degrades to an empty slice.
func Normalize(text string, opts Options) []string {
	text = strings.ToLower(text)

	if opts.Expand {
		text = ExpandContractions(text)
	}

	if opts.RemoveSpecial {
		text = punctRe.ReplaceAllString(text, "")
		text = digitRe.ReplaceAllString(text, "")
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if opts.Correct && opts.Corrector != nil {
		for i, w := range words {
			words[i] = opts.Corrector.Correct(w)
		}
	}

	if opts.Lemmatize {
		for i, w := range words {
			words[i] = Lemmatize(w)
		}
	}

	if opts.RemoveStops {
		words = removeStopwords(words, opts.CustomStopwords)
	}

	return words
}

func removeStopwords(words []string, custom []string) []string {
	var extra map[string]struct{}
	if len(custom) > 0 {
		extra = make(map[string]struct{}, len(custom))
		for _, w := range custom {
			extra[strings.ToLower(w)] = struct{}{}
		}
	}

	kept := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, stop := extra[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}
