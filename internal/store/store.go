// Package store persists task outcomes. One record per successful task,
// appended durably before the next task starts.
//
// Backends: CSV file (reference behavior) and SQLite. Neither deduplicates
// across runs — rerunning the batch appends everything again. That is a
// stated limitation of the experiment, not a bug.
package store

import "strconv"

// StatusSuccess tags records produced by a well-formed verdict. Skipped tasks
// write no record at all.
const StatusSuccess = "Success"

// Record is one persisted task outcome: the verdict enriched with the task's
// pair id, strategy label, and persona id.
type Record struct {
	PairID           int
	Strategy         string
	PersonaID        string
	Choice           string
	Rationale        string
	Difficulty       string
	DifficultyReason string
	Status           string
}

// Store is the durable result store. Implementations must make Append
// crash-safe: once it returns, the row survives process death.
type Store interface {
	// Append durably writes one record, flushing before it returns.
	Append(rec Record) error
	// Load reads back every record in append order.
	Load() ([]Record, error)
	Close() error
}

// header is the durable column schema, shared by the CSV file and the
// SQLite column order.
var header = []string{
	"Pair_ID", "Strategy", "Persona_ID", "Choice",
	"Rationale", "Difficulty_Ranking", "Difficulty_Reasoning", "Status",
}

// row flattens a record into the column schema.
func (r Record) row() []string {
	return []string{
		strconv.Itoa(r.PairID), r.Strategy, r.PersonaID, r.Choice,
		r.Rationale, r.Difficulty, r.DifficultyReason, r.Status,
	}
}

// fromRow rebuilds a record from a stored row. Inverse of row: every field
// round-trips without loss.
func fromRow(row []string) (Record, bool) {
	if len(row) != len(header) {
		return Record{}, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, false
	}
	return Record{
		PairID:           id,
		Strategy:         row[1],
		PersonaID:        row[2],
		Choice:           row[3],
		Rationale:        row[4],
		Difficulty:       row[5],
		DifficultyReason: row[6],
		Status:           row[7],
	}, true
}
