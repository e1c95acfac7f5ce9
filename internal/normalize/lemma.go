package normalize

import "strings"

// irregular maps irregular plural forms to their singular lemma.
var irregular = map[string]string{
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"geese":    "goose",
	"mice":     "mouse",
	"people":   "person",
	"oxen":     "ox",
	"lives":    "life",
	"wives":    "wife",
	"knives":   "knife",
	"leaves":   "leaf",
}

// suffix rewrite rules applied in order; the first match wins.
// Mirrors the standard noun detachment rules (ses->s, xes->x, ches->ch,
// shes->sh, ies->y, plain s dropped).
var suffixRules = []struct{ from, to string }{
	{"sses", "ss"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"ies", "y"},
	{"s", ""},
}

// Lemmatize reduces a word to its noun base form. Words that are already
// singular, too short to carry a plural suffix, or end in "ss"/"us"/"is"
// pass through unchanged.
func Lemmatize(word string) string {
	if lemma, ok := irregular[word]; ok {
		return lemma
	}
	if len(word) <= 3 {
		return word
	}
	if strings.HasSuffix(word, "ss") ||
		strings.HasSuffix(word, "us") ||
		strings.HasSuffix(word, "is") {
		return word
	}
	for _, r := range suffixRules {
		if strings.HasSuffix(word, r.from) && len(word) > len(r.from)+1 {
			return word[:len(word)-len(r.from)] + r.to
		}
	}
	return word
}
