package corpus

import "strings"

// NoRelevantContext is returned instead of an empty concatenation when no
// passage clears the similarity threshold. The prompt builder renders it as
// an explicit insufficient-information instruction rather than a blank
// context block.
const NoRelevantContext = "No relevant content found in the knowledge base."

// ContextFromPassages joins passage contents with a blank-line separator,
// preserving the similarity-descending order of the input. No deduplication
// and no truncation beyond what Search already capped.
func ContextFromPassages(passages []Passage) string {
	if len(passages) == 0 {
		return NoRelevantContext
	}
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}
