package chat

import (
	"strings"

	"github.com/pharmachat/pharmachat/internal/corpus"
)

// Persona selects the behavioral mode of the assistant: the system prompt
// template and conversational tone. The set is closed; anything
// unrecognized normalizes to general.
type Persona string

const (
	PersonaGeneral  Persona = "general"
	PersonaRoleplay Persona = "roleplay"
)

// FallbackAnswer is the fixed sentence the general persona must use when the
// retrieved context does not contain the answer.
const FallbackAnswer = "I don't have enough information in my knowledge base to answer that question."

// ParsePersona normalizes arbitrary client input to a valid Persona.
// Unknown values fall back to general rather than erroring; the mapping is
// idempotent.
func ParsePersona(s string) Persona {
	switch Persona(strings.ToLower(strings.TrimSpace(s))) {
	case PersonaRoleplay:
		return PersonaRoleplay
	default:
		return PersonaGeneral
	}
}

const generalInstructions = `You are a knowledgeable pharmacy benefits assistant. Answer the user's question using only the reference content provided below. Keep a warm, conversational tone, and explain industry terms when they first come up.

If the reference content does not contain the information needed to answer, reply exactly with: "` + FallbackAnswer + `" Do not invent facts, figures, or sources.`

const roleplayInstructions = `You are running a pharmacy consultation practice session. Play the part of an interviewer: invent one specific, realistic scenario, such as a plan sponsor weighing formulary options or a client asking about PBM pricing, present it briefly, and ask the user to respond as the consultant. Stay in character, react to their answers, and keep the scenario focused. Where the reference content below is relevant, use it to keep the details accurate.`

// SystemPrompt assembles the system instructions for this persona plus the
// retrieved context. The persona's fixed instructions always come first and
// the context block always follows them. Pure and deterministic: identical
// inputs yield byte-identical prompts.
func (p Persona) SystemPrompt(contextText string) string {
	var b strings.Builder

	switch p {
	case PersonaRoleplay:
		b.WriteString(roleplayInstructions)
	default:
		b.WriteString(generalInstructions)
	}

	b.WriteString("\n\n")
	if contextText == corpus.NoRelevantContext || strings.TrimSpace(contextText) == "" {
		b.WriteString("No reference content matched this question. Tell the user you do not have enough information rather than guessing.")
	} else {
		b.WriteString("Reference content:\n\n")
		b.WriteString(contextText)
	}

	return b.String()
}
