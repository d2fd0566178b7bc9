// Package retry drives a single task's invocation attempts to a terminal
// state: Done (verdict produced) or Skipped (task dropped).
//
// Delay computation is split out as pure functions of the attempt number so
// tests can assert on durations without sleeping.
package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"sway/internal/judge"
)

// DefaultMaxAttempts bounds the per-task retry budget.
const DefaultMaxAttempts = 5

// Outcome is the terminal state of one task.
type Outcome struct {
	Verdict   *judge.Verdict // non-nil exactly when the task succeeded
	Skipped   bool
	Exhausted bool        // true when the retry budget ran out
	Class     judge.Class // failure class that ended the task; valid when Skipped
	Reason    string      // human-readable skip reason
	Attempts  int         // invocation attempts consumed
}

// Policy bounds attempts and computes delays for one task.
type Policy struct {
	MaxAttempts    int                             // <=0 means DefaultMaxAttempts
	RateLimitDelay func(attempt int) time.Duration // escalating backoff; attempt is 1-based
	TransientDelay time.Duration                   // fixed delay for transient failures
	Sleep          func(time.Duration)             // injectable; nil means time.Sleep
	Logger         *slog.Logger                    // nil means slog.Default()
}

// DefaultPolicy mirrors the reference budget: 5 attempts, rate-limit backoff
// of 5s per attempt plus 1-3s jitter, 5s transient delay.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    DefaultMaxAttempts,
		RateLimitDelay: Backoff(5*time.Second, Jitter(1*time.Second, 3*time.Second)),
		TransientDelay: 5 * time.Second,
	}
}

// Backoff returns a delay function computing base scaled by the attempt
// number plus a jitter draw. A nil jitter contributes nothing, which keeps
// the function pure for tests.
func Backoff(base time.Duration, jitter func() time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := base * time.Duration(attempt)
		if jitter != nil {
			d += jitter()
		}
		return d
	}
}

// Jitter returns a source of uniformly random durations in [lo, hi). The
// randomness desynchronizes retry trains that would otherwise hit the service
// in lockstep.
func Jitter(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + time.Duration(rand.Int63n(int64(hi-lo)))
	}
}

// Run invokes fn until it produces a verdict or the task reaches a terminal
// skip. Retryable classes consume an attempt each; malformed output and
// unclassified failures skip immediately.
func (p Policy) Run(ctx context.Context, fn func(context.Context) (*judge.Verdict, error)) Outcome {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	var lastClass judge.Class
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{Skipped: true, Class: judge.ClassFatal, Reason: err.Error(), Attempts: attempt - 1}
		}

		verdict, err := fn(ctx)
		if err == nil {
			return Outcome{Verdict: verdict, Attempts: attempt}
		}

		lastErr = err
		lastClass = judge.ClassOf(err)
		switch lastClass {
		case judge.ClassRateLimited:
			var d time.Duration
			if p.RateLimitDelay != nil {
				d = p.RateLimitDelay(attempt)
			}
			log.Warn("rate limit hit, cooling down", "attempt", attempt, "delay", d)
			sleep(d)
		case judge.ClassTransient:
			log.Warn("transient service failure, retrying", "attempt", attempt, "err", err)
			sleep(p.TransientDelay)
		default:
			// Malformed output and unclassified failures are not transient
			// conditions; retrying would burn budget on a defect.
			log.Error("terminal failure, skipping task", "attempt", attempt, "class", lastClass.String(), "err", err)
			return Outcome{Skipped: true, Class: lastClass, Reason: err.Error(), Attempts: attempt}
		}
	}

	log.Error("retry budget exhausted, skipping task", "attempts", maxAttempts, "last_err", lastErr)
	return Outcome{
		Skipped:   true,
		Exhausted: true,
		Class:     lastClass,
		Reason:    "retry budget exhausted: " + lastErr.Error(),
		Attempts:  maxAttempts,
	}
}
