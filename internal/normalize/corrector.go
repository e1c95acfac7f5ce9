package normalize

import "sort"

// Corrector suggests the nearest known word for a misspelled token.
// Known words come from the corpus vocabulary, so correction pulls query
// tokens toward terms the index can actually score.
type Corrector struct {
	known map[string]int // word -> occurrence count
}

// NewCorrector builds a corrector from a word list. Repeated words raise the
// word's rank when breaking ties between candidates.
func NewCorrector(words []string) *Corrector {
	known := make(map[string]int, len(words))
	for _, w := range words {
		known[w]++
	}
	return &Corrector{known: known}
}

// Correct returns the closest known word within edit distance 2, preferring
// distance 1 over distance 2, higher corpus frequency over lower, and
// lexicographic order for exact ties. Known words and words with no candidate
// pass through unchanged.
func (c *Corrector) Correct(word string) string {
	if word == "" {
		return word
	}
	if _, ok := c.known[word]; ok {
		return word
	}

	edits := edits1(word)
	if best := c.pick(edits); best != "" {
		return best
	}

	// Distance 2: edits of edits. Bounded by the word length, acceptable
	// for query-sized inputs.
	seen := make(map[string]struct{})
	for _, e := range edits {
		for _, e2 := range edits1(e) {
			seen[e2] = struct{}{}
		}
	}
	candidates := make([]string, 0, len(seen))
	for e := range seen {
		candidates = append(candidates, e)
	}
	if best := c.pick(candidates); best != "" {
		return best
	}

	return word
}

// pick selects the known candidate with the highest frequency, breaking ties
// lexicographically for determinism.
func (c *Corrector) pick(candidates []string) string {
	var matched []string
	for _, cand := range candidates {
		if _, ok := c.known[cand]; ok {
			matched = append(matched, cand)
		}
	}
	if len(matched) == 0 {
		return ""
	}
	sort.Strings(matched)
	best := matched[0]
	for _, m := range matched[1:] {
		if c.known[m] > c.known[best] {
			best = m
		}
	}
	return best
}

const letters = "abcdefghijklmnopqrstuvwxyz"

// edits1 generates every string at edit distance 1: deletions, transpositions,
// replacements, and insertions.
func edits1(word string) []string {
	var out []string
	runes := []rune(word)
	n := len(runes)

	for i := 0; i < n; i++ {
		out = append(out, string(runes[:i])+string(runes[i+1:]))
	}
	for i := 0; i < n-1; i++ {
		swapped := make([]rune, n)
		copy(swapped, runes)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		out = append(out, string(swapped))
	}
	for i := 0; i < n; i++ {
		for _, l := range letters {
			out = append(out, string(runes[:i])+string(l)+string(runes[i+1:]))
		}
	}
	for i := 0; i <= n; i++ {
		for _, l := range letters {
			out = append(out, string(runes[:i])+string(l)+string(runes[i:]))
		}
	}
	return out
}
