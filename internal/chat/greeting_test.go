package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreetingDetector_Matches(t *testing.T) {
	d := NewGreetingDetector()

	for _, q := range []string{
		"hi",
		"Hi",
		"HELLO",
		"  hey  ",
		"hi there!",
		"hello, how do I start?",
		"how are you",
		"How are you doing today?",
		"good morning",
		"hola",
		"bonjour",
		"namaste",
		"hi👋",     // multibyte follower is a boundary, not a letter
		"hello…",
	} {
		assert.True(t, d.Match(q), "expected %q to match", q)
	}
}

func TestGreetingDetector_NonMatches(t *testing.T) {
	d := NewGreetingDetector()

	for _, q := range []string{
		"",
		"   ",
		"history of PBMs",            // "hi" prefix but inside a word
		"heyday of biosimilars",      // "hey" prefix but inside a word
		"What is a formulary?",
		"tell me hello world",        // not anchored at start
		"how much does a drug cost?", // "how" alone is not a greeting
		"hiérarchie des couts",       // multibyte letter continues the word
	} {
		assert.False(t, d.Match(q), "expected %q not to match", q)
	}
}

func TestGreetingDetector_PickFromCannedSet(t *testing.T) {
	d := NewGreetingDetector()
	canned := Responses()

	for i := 0; i < 50; i++ {
		got := d.Pick()
		assert.Contains(t, canned, got)
	}
}
