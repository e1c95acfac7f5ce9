package normalize

import "strings"

// contractions maps common English contractions to their expanded forms.
// Keys are lowercase; lookup happens after case folding.
var contractions = map[string]string{
	"i'm":       "i am",
	"you're":    "you are",
	"he's":      "he is",
	"she's":     "she is",
	"it's":      "it is",
	"we're":     "we are",
	"they're":   "they are",
	"i've":      "i have",
	"you've":    "you have",
	"we've":     "we have",
	"they've":   "they have",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"weren't":   "were not",
	"hasn't":    "has not",
	"haven't":   "have not",
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"can't":     "cannot",
	"couldn't":  "could not",
	"shouldn't": "should not",
	"mightn't":  "might not",
	"mustn't":   "must not",
	"wouldn't":  "would not",
	"won't":     "will not",
	"let's":     "let us",
	"what's":    "what is",
	"who's":     "who is",
	"here's":    "here is",
	"there's":   "there is",
	"that's":    "that is",
	"how's":     "how is",
	"why's":     "why is",
	"i'll":      "i will",
	"you'll":    "you will",
	"he'll":     "he will",
	"she'll":    "she will",
	"we'll":     "we will",
	"they'll":   "they will",
	"i'd":       "i would",
	"you'd":     "you would",
	"he'd":      "he would",
	"she'd":     "she would",
	"we'd":      "we would",
	"they'd":    "they would",
}

// ExpandContractions replaces whole-word contractions with their expanded
// forms. Words without a table entry pass through unchanged.
func ExpandContractions(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if exp, ok := contractions[strings.ToLower(w)]; ok {
			words[i] = exp
		}
	}
	return strings.Join(words, " ")
}
