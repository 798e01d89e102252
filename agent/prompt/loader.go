package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/persona.txt
	personaRaw string

	//go:embed template/menu_answer.txt
	menuAnswerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Persona    string
	MenuAnswer string
}

// LoadPromptSet returns trimmed prompt strings. Safe to call concurrently;
// the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Persona:    strings.TrimSpace(personaRaw),
		MenuAnswer: strings.TrimSpace(menuAnswerRaw),
	}
}
