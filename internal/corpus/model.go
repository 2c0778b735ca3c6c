package corpus

// Passage is one corpus row with its computed cosine similarity to the
// current query vector. Read-only: fetched per request, never mutated.
type Passage struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
