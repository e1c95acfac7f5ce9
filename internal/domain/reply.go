package domain

// Match is the best corpus entry for a query.
type Match struct {
	// Position is the sentence's position in the corpus ordering.
	Position int
	// Sentence is the matched corpus sentence, verbatim.
	Sentence string
	// Score is the cosine similarity in [0,1].
	Score float64
}

// Source identifies which path produced a reply.
type Source string

const (
	// SourceRetrieval means the reply is a corpus sentence returned verbatim.
	SourceRetrieval Source = "retrieval"
	// SourceGenerative means the reply came from the generative provider.
	SourceGenerative Source = "generative"
	// SourceFallback means every path failed and the fixed apology was returned.
	SourceFallback Source = "fallback"
)

// Reply is the engine's answer to a single query. Text is never empty.
type Reply struct {
	Text   string
	Source Source
	// Score is the best match similarity, 0 when no match was attempted or found.
	Score float64
}
