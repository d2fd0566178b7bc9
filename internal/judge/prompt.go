package judge

import (
	"fmt"
	"strings"

	"sway/internal/display"
	"sway/internal/persona"
)

// systemPrompt conditions the model to answer in character as the persona.
func systemPrompt(p persona.Persona) string {
	return fmt.Sprintf(
		"You are a specific persona: %s (%s). Bias: %s. Adopt this persona completely. "+
			"Your choices must reflect YOUR biases, even if they contradict standard marketing logic.",
		p.ID, p.Desc, p.Bias)
}

// taskPrompt names the strategy under test and demands the exact JSON verdict
// shape, with the difficulty scale defined inline so ratings are comparable
// across personas.
func taskPrompt(strategy string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context: Strategy '%s'. Compare Image A and B.\n", strategy)
	b.WriteString("1. Which is more persuasive to YOU?\n")
	b.WriteString("2. Why? (Rationale)\n")
	b.WriteString("3. Rank the difficulty of the choice [A vs B]. Use these definitions:\n")
	for _, level := range display.DifficultyLevels() {
		fmt.Fprintf(&b, "   - '%s': %s\n", level, display.DifficultyDefinition(level))
	}
	b.WriteString(`Output JSON: { "chosen_image": "A", "rationale": "...", ` +
		`"difficulty_ranking": "Easy/Medium/Hard", ` +
		`"difficulty_reason": "Explain clearly why it was Easy, Medium, or Hard." }`)
	return b.String()
}
