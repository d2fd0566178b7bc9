// Package judge invokes the external multimodal judgment service for one
// pair/persona task and classifies every failure into a closed taxonomy.
//
// The package performs exactly one attempt per call; retry policy belongs to
// the caller (internal/retry).
package judge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sway/internal/display"
)

// Class identifies the failure class of one invocation attempt. The retry
// controller switches exhaustively on this value.
type Class int

const (
	// ClassRateLimited marks quota rejections; retryable with escalating backoff.
	ClassRateLimited Class = iota
	// ClassTransient marks timeouts, 5xx responses, and malformed upstream
	// envelopes; retryable with a fixed delay.
	ClassTransient
	// ClassMalformed marks empty or structurally unparseable model output;
	// terminal, the task is skipped on first occurrence.
	ClassMalformed
	// ClassFatal marks everything unclassified (bad request, missing image
	// file). Likely a configuration defect, so never retried.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate-limited"
	case ClassTransient:
		return "transient"
	case ClassMalformed:
		return "malformed-output"
	case ClassFatal:
		return "fatal"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Error is a classified invocation failure.
type Error struct {
	Class Class
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Class, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// failf builds a classified error.
func failf(class Class, format string, args ...any) *Error {
	return &Error{Class: class, Err: fmt.Errorf(format, args...)}
}

// ClassOf returns the failure class of err. Errors outside the taxonomy are
// ClassFatal.
func ClassOf(err error) Class {
	var je *Error
	if errors.As(err, &je) {
		return je.Class
	}
	return ClassFatal
}

// Verdict is the structured outcome of one well-formed model response.
type Verdict struct {
	Choice           string // "A" or "B"
	Rationale        string
	Difficulty       string // Easy/Medium/Hard, or a joined ranked list from looser variants
	DifficultyReason string
}

// verdictWire is the JSON shape the model is instructed to return.
type verdictWire struct {
	ChosenImage       string       `json:"chosen_image"`
	Rationale         string       `json:"rationale"`
	DifficultyRanking stringOrList `json:"difficulty_ranking"`
	DifficultyReason  string       `json:"difficulty_reason"`
}

// stringOrList decodes a JSON string, or a list of strings joined with " > ".
// Looser prompt variants ask for a ranked list instead of a single level.
type stringOrList string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringOrList(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = stringOrList(strings.Join(list, " > "))
		return nil
	}
	return fmt.Errorf("difficulty_ranking is neither string nor list: %s", bytes.TrimSpace(data))
}

// ParseVerdict parses raw model content into a Verdict. Empty or structurally
// unparseable content is a ClassMalformed error.
func ParseVerdict(content string) (*Verdict, error) {
	if strings.TrimSpace(content) == "" {
		return nil, failf(ClassMalformed, "empty response content")
	}
	var wire verdictWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, failf(ClassMalformed, "parse verdict JSON: %w", err)
	}
	return &Verdict{
		Choice:           strings.ToUpper(strings.TrimSpace(wire.ChosenImage)),
		Rationale:        wire.Rationale,
		Difficulty:       display.NormalizeDifficulty(string(wire.DifficultyRanking)),
		DifficultyReason: wire.DifficultyReason,
	}, nil
}
