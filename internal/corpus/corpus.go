// Package corpus loads a reference document and segments it into the ordered
// sentence list the similarity index is built from.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// abbreviations that end with a period without ending a sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "st": {},
	"vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "no": {}, "inc": {},
	"ltd": {}, "dept": {}, "approx": {},
}

// FromFile reads a UTF-8 text document and returns its sentences.
func FromFile(path string) ([]string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return Sentences(string(data)), nil
}

// Sentences splits text into sentence strings on terminal punctuation,
// guarding common abbreviations, initials, and decimal numbers. Whitespace
// runs inside a sentence collapse to single spaces; empty segments are
// dropped. The output order follows the document order.
func Sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && !periodEndsSentence(runes, i) {
			continue
		}

		// Include trailing closers like quotes or parens.
		end := i + 1
		for end < len(runes) && (runes[end] == '"' || runes[end] == '\'' || runes[end] == ')') {
			end++
		}

		if s := cleanup(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}

	if s := cleanup(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// periodEndsSentence reports whether the period at position i terminates a
// sentence rather than an abbreviation, initial, or decimal number.
func periodEndsSentence(runes []rune, i int) bool {
	// Decimal number: digit on both sides.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}

	// Word immediately before the period.
	j := i
	for j > 0 && (unicode.IsLetter(runes[j-1]) || runes[j-1] == '.') {
		j--
	}
	word := strings.ToLower(strings.TrimSuffix(string(runes[j:i]), "."))
	if _, ok := abbreviations[word]; ok {
		return false
	}
	// Single-letter initial, as in "J. Smith".
	if len([]rune(word)) == 1 && !strings.Contains(word, ".") {
		return false
	}
	return true
}

func cleanup(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
