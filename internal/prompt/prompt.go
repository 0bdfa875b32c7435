// Package prompt assembles the provider-ready prompt for a chat question.
package prompt

import "strings"

// DefaultContext is the only context tag the chat API accepts today.
const DefaultContext = "academic_general"

// Language returns the Spanish name of the answer language for lang.
// "es" selects Spanish; every other value selects English.
func Language(lang string) string {
	if lang == "es" {
		return "español"
	}
	return "inglés"
}

// Build returns the prompt for question. The output depends only on its
// arguments, so identical requests share one cache key.
func Build(question, lang, context string) string {
	var b strings.Builder
	b.Grow(len(question) + 256)
	b.WriteString("Eres un asistente académico universitario. ")
	b.WriteString("Responde de forma clara, precisa y didáctica en ")
	b.WriteString(Language(lang))
	b.WriteString(".\n")
	b.WriteString("Contexto: ")
	b.WriteString(context)
	b.WriteString("\n\n")
	b.WriteString("Pregunta: ")
	b.WriteString(question)
	return b.String()
}
