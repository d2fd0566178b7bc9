// Package display provides human-readable names for experiment codes.
//
// Use these in CLI output, prompts, reports, and logs. Keep the raw ids for
// CSV columns, map keys, and equality comparisons.
package display

import "strings"

// --- Persuasion Strategies ---

// strategies maps a pair id to the persuasion strategy that pair tests.
var strategies = map[int]string{
	1: "Authority",
	2: "Social Proof",
	3: "Scarcity",
	4: "Emotional Appeal",
	5: "Personal Identity",
	6: "Humor",
	7: "Trustworthiness",
	8: "Familiarity",
	9: "Novelty",
}

// StrategyUnknown is the label for pair ids outside the strategy table.
const StrategyUnknown = "Unknown"

// Strategy returns the strategy label under test for a pair id.
// Ids outside the table get StrategyUnknown.
func Strategy(pairID int) string {
	if name, ok := strategies[pairID]; ok {
		return name
	}
	return StrategyUnknown
}

// --- Difficulty Scale ---

// The closed difficulty scale the model is asked to rate its choice on.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

var difficultyDefs = map[string]string{
	DifficultyEasy:   "One image is obviously better suited to the persona's bias.",
	DifficultyMedium: "Both have merit, but one is slightly better.",
	DifficultyHard:   "A toss-up; both are good or both are bad, requiring complex trade-offs.",
}

// DifficultyLevels returns the scale in ascending order of difficulty.
func DifficultyLevels() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// DifficultyDefinition returns the one-sentence definition of a level,
// as given to the model in the prompt and repeated in the report legend.
// Unknown levels return "".
func DifficultyDefinition(level string) string {
	return difficultyDefs[level]
}

// NormalizeDifficulty canonicalizes model-reported difficulty onto the closed
// scale ("easy" -> "Easy"). Values outside the scale are returned trimmed but
// otherwise as-is: looser model variants report a ranked list here.
func NormalizeDifficulty(s string) string {
	trimmed := strings.TrimSpace(s)
	for level := range difficultyDefs {
		if strings.EqualFold(trimmed, level) {
			return level
		}
	}
	return trimmed
}
