package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sway/internal/discover"
	"sway/internal/display"
	"sway/internal/judge"
	"sway/internal/logging"
	"sway/internal/persona"
	"sway/internal/retry"
	"sway/internal/store"
)

// Invoker produces a verdict for one pair/persona task. *judge.Client is the
// production implementation; tests inject stubs.
type Invoker interface {
	Invoke(ctx context.Context, pair discover.Pair, p persona.Persona) (*judge.Verdict, error)
}

// Config wires a Driver. Everything is explicit: no ambient globals.
type Config struct {
	Invoker Invoker
	Store   store.Store
	Policy  retry.Policy
	Pacing  time.Duration       // delay after every task, success or skip
	Sleep   func(time.Duration) // injectable; nil means time.Sleep
	Logger  *slog.Logger        // nil means component logger off slog default

	// OnVerdict, when set, observes each verdict as it is produced.
	// Used for console visualization; errors here cannot exist.
	OnVerdict func(Task, *judge.Verdict)
}

// Driver runs the task sequence strictly sequentially. A task that ends in a
// terminal skip is logged and dropped; it never aborts the batch.
type Driver struct {
	cfg   Config
	sleep func(time.Duration)
	log   *slog.Logger
}

// NewDriver creates a Driver with defaults filled in.
func NewDriver(cfg Config) *Driver {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New("batch")
	}
	return &Driver{cfg: cfg, sleep: sleep, log: log}
}

// Run processes every task in order and returns the in-memory accumulation
// of successful records. The returned error is nil unless the durable store
// fails or ctx is canceled — per-task failures are consumed here.
func (d *Driver) Run(ctx context.Context, tasks []Task) ([]store.Record, error) {
	results := make([]store.Record, 0, len(tasks))
	skipped := 0
	lastPair := -1

	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if t.Pair.ID != lastPair {
			lastPair = t.Pair.ID
			d.log.Info("analyzing pair", "pair", t.Pair.ID, "strategy", display.Strategy(t.Pair.ID))
		}

		task := t
		oc := d.cfg.Policy.Run(ctx, func(ctx context.Context) (*judge.Verdict, error) {
			return d.cfg.Invoker.Invoke(ctx, task.Pair, task.Persona)
		})

		if oc.Skipped {
			skipped++
			d.log.Warn("task skipped",
				"pair", t.Pair.ID, "persona", t.Persona.ID,
				"class", oc.Class.String(), "attempts", oc.Attempts, "reason", oc.Reason)
		} else {
			rec := store.Record{
				PairID:           t.Pair.ID,
				Strategy:         display.Strategy(t.Pair.ID),
				PersonaID:        t.Persona.ID,
				Choice:           oc.Verdict.Choice,
				Rationale:        oc.Verdict.Rationale,
				Difficulty:       oc.Verdict.Difficulty,
				DifficultyReason: oc.Verdict.DifficultyReason,
				Status:           store.StatusSuccess,
			}
			if err := d.cfg.Store.Append(rec); err != nil {
				return results, fmt.Errorf("batch: record pair %d persona %s: %w", t.Pair.ID, t.Persona.ID, err)
			}
			results = append(results, rec)
			if d.cfg.OnVerdict != nil {
				d.cfg.OnVerdict(t, oc.Verdict)
			}
		}

		// Pacing keeps the run under external rate limits.
		if d.cfg.Pacing > 0 {
			d.sleep(d.cfg.Pacing)
		}
	}

	d.log.Info("batch complete", "tasks", len(tasks), "recorded", len(results), "skipped", skipped)
	return results, nil
}
