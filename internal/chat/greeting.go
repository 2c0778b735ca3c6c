package chat

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// greetingPatterns are matched case-insensitively against the trimmed start
// of the query. Static data, safe for concurrent reads from all handlers.
var greetingPatterns = []string{
	"hi",
	"hii",
	"hello",
	"hey",
	"heya",
	"howdy",
	"good morning",
	"good afternoon",
	"good evening",
	"how are you",
	"how's it going",
	"what's up",
	"hola",
	"bonjour",
	"ciao",
	"hallo",
	"namaste",
}

var greetingResponses = []string{
	"Hello! How can I help you with your pharmacy benefits questions today?",
	"Hi there! Ask me anything about pharmacy fundamentals, plan design, or PBMs.",
	"Hey! I'm doing well, thanks. What would you like to know?",
	"Hello! Ready when you are. What can I look up for you?",
}

// GreetingDetector short-circuits trivial conversational openers so they
// never reach retrieval. Detection is deterministic; queries that merely
// resemble greetings fall through to the full pipeline, which still answers.
type GreetingDetector struct{}

// NewGreetingDetector returns the detector. It holds no state.
func NewGreetingDetector() *GreetingDetector {
	return &GreetingDetector{}
}

// Match reports whether the query is a conversational opener: one of the
// fixed patterns anchored at the start of the trimmed, lowercased text and
// followed by a word boundary. "hi there!" matches; "history" does not.
func (d *GreetingDetector) Match(query string) bool {
	text := strings.ToLower(strings.TrimSpace(query))
	if text == "" {
		return false
	}
	for _, pat := range greetingPatterns {
		if !strings.HasPrefix(text, pat) {
			continue
		}
		rest := text[len(pat):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Pick returns one canned greeting, chosen uniformly at random.
func (d *GreetingDetector) Pick() string {
	return greetingResponses[rand.IntN(len(greetingResponses))]
}

// Responses returns the canned greeting set. Exposed for tests asserting
// membership.
func Responses() []string {
	return greetingResponses
}
