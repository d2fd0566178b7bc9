// Package batch enumerates evaluation tasks and drives them to completion,
// one at a time, isolating every task's failures from the rest of the run.
package batch

import (
	"sway/internal/discover"
	"sway/internal/persona"
)

// Task is one unit of work: judge one pair under one persona.
type Task struct {
	Pair    discover.Pair
	Persona persona.Persona
}

// Enumerate returns the full task sequence: the Cartesian product of
// eligible pairs and the roster, ordered by pair id ascending then roster
// order. Pairs missing a side are excluded. No pairs means no tasks.
func Enumerate(pairs map[int]discover.Pair, roster []persona.Persona) []Task {
	var tasks []Task
	for _, id := range discover.IDs(pairs) {
		p := pairs[id]
		if !p.Eligible() {
			continue
		}
		for _, per := range roster {
			tasks = append(tasks, Task{Pair: p, Persona: per})
		}
	}
	return tasks
}
