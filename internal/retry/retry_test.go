package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"sway/internal/judge"
)

// sleepSpy records requested sleep durations instead of sleeping.
type sleepSpy struct {
	slept []time.Duration
}

func (s *sleepSpy) sleep(d time.Duration) { s.slept = append(s.slept, d) }

func classErr(c judge.Class) error {
	return &judge.Error{Class: c, Err: errors.New("stub failure")}
}

// scriptedInvoker fails with errs in order, then succeeds.
func scriptedInvoker(errs ...error) func(context.Context) (*judge.Verdict, error) {
	i := 0
	return func(context.Context) (*judge.Verdict, error) {
		if i < len(errs) {
			err := errs[i]
			i++
			if err != nil {
				return nil, err
			}
		}
		return &judge.Verdict{Choice: "A"}, nil
	}
}

func testPolicy(spy *sleepSpy) Policy {
	return Policy{
		MaxAttempts:    5,
		RateLimitDelay: Backoff(5*time.Second, nil),
		TransientDelay: 5 * time.Second,
		Sleep:          spy.sleep,
	}
}

func TestRun_FirstAttemptSuccess(t *testing.T) {
	spy := &sleepSpy{}
	oc := testPolicy(spy).Run(context.Background(), scriptedInvoker())
	if oc.Skipped || oc.Verdict == nil {
		t.Fatalf("outcome = %+v, want success", oc)
	}
	if oc.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", oc.Attempts)
	}
	if len(spy.slept) != 0 {
		t.Errorf("slept %v, want zero sleep invocations", spy.slept)
	}
}

func TestRun_RateLimitedThenSuccess(t *testing.T) {
	const k = 3
	spy := &sleepSpy{}
	errs := make([]error, k)
	for i := range errs {
		errs[i] = classErr(judge.ClassRateLimited)
	}

	oc := testPolicy(spy).Run(context.Background(), scriptedInvoker(errs...))
	if oc.Skipped {
		t.Fatalf("outcome = %+v, want success after retries", oc)
	}
	if oc.Attempts != k+1 {
		t.Errorf("attempts = %d, want %d", oc.Attempts, k+1)
	}
	if len(spy.slept) != k {
		t.Fatalf("sleeps = %d, want %d", len(spy.slept), k)
	}
	for i := 1; i < len(spy.slept); i++ {
		if spy.slept[i] <= spy.slept[i-1] {
			t.Errorf("backoff not strictly increasing: %v", spy.slept)
		}
	}
}

func TestRun_RateLimitBudgetExhausted(t *testing.T) {
	spy := &sleepSpy{}
	calls := 0
	oc := testPolicy(spy).Run(context.Background(), func(context.Context) (*judge.Verdict, error) {
		calls++
		return nil, classErr(judge.ClassRateLimited)
	})
	if !oc.Skipped || !oc.Exhausted {
		t.Fatalf("outcome = %+v, want exhausted skip", oc)
	}
	if calls != 5 || oc.Attempts != 5 {
		t.Errorf("calls = %d attempts = %d, want 5/5", calls, oc.Attempts)
	}
	if oc.Class != judge.ClassRateLimited {
		t.Errorf("class = %v", oc.Class)
	}
}

func TestRun_TransientUsesFixedDelay(t *testing.T) {
	spy := &sleepSpy{}
	oc := testPolicy(spy).Run(context.Background(), scriptedInvoker(
		classErr(judge.ClassTransient), classErr(judge.ClassTransient)))
	if oc.Skipped {
		t.Fatalf("outcome = %+v, want success", oc)
	}
	want := []time.Duration{5 * time.Second, 5 * time.Second}
	if len(spy.slept) != 2 || spy.slept[0] != want[0] || spy.slept[1] != want[1] {
		t.Errorf("slept %v, want %v", spy.slept, want)
	}
}

func TestRun_MalformedSkipsImmediately(t *testing.T) {
	spy := &sleepSpy{}
	calls := 0
	oc := testPolicy(spy).Run(context.Background(), func(context.Context) (*judge.Verdict, error) {
		calls++
		return nil, classErr(judge.ClassMalformed)
	})
	if !oc.Skipped || oc.Exhausted {
		t.Fatalf("outcome = %+v, want immediate skip", oc)
	}
	if calls != 1 || oc.Attempts != 1 {
		t.Errorf("calls = %d attempts = %d, want 1/1", calls, oc.Attempts)
	}
	if len(spy.slept) != 0 {
		t.Errorf("slept %v, want none", spy.slept)
	}
	if oc.Class != judge.ClassMalformed {
		t.Errorf("class = %v", oc.Class)
	}
}

func TestRun_UnclassifiedErrorIsFatalSkip(t *testing.T) {
	spy := &sleepSpy{}
	oc := testPolicy(spy).Run(context.Background(), func(context.Context) (*judge.Verdict, error) {
		return nil, errors.New("nil pointer somewhere")
	})
	if !oc.Skipped || oc.Attempts != 1 || oc.Class != judge.ClassFatal {
		t.Fatalf("outcome = %+v, want fatal skip on first attempt", oc)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	oc := testPolicy(&sleepSpy{}).Run(ctx, func(context.Context) (*judge.Verdict, error) {
		t.Error("invoker must not run after cancellation")
		return nil, nil
	})
	if !oc.Skipped || oc.Attempts != 0 {
		t.Fatalf("outcome = %+v, want skip with no attempts", oc)
	}
}

func TestBackoff_PureAndEscalating(t *testing.T) {
	delay := Backoff(5*time.Second, nil)
	for attempt := 1; attempt <= 5; attempt++ {
		want := time.Duration(attempt) * 5 * time.Second
		if got := delay(attempt); got != want {
			t.Errorf("delay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestJitter_WithinBounds(t *testing.T) {
	j := Jitter(1*time.Second, 3*time.Second)
	for i := 0; i < 100; i++ {
		d := j()
		if d < 1*time.Second || d >= 3*time.Second {
			t.Fatalf("jitter %v out of [1s,3s)", d)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", p.MaxAttempts)
	}
	if p.TransientDelay != 5*time.Second {
		t.Errorf("TransientDelay = %v", p.TransientDelay)
	}
	// Delay for attempt n stays within base*n + [1s,3s).
	for attempt := 1; attempt <= 5; attempt++ {
		d := p.RateLimitDelay(attempt)
		lo := time.Duration(attempt)*5*time.Second + 1*time.Second
		hi := time.Duration(attempt)*5*time.Second + 3*time.Second
		if d < lo || d >= hi {
			t.Errorf("RateLimitDelay(%d) = %v, want in [%v,%v)", attempt, d, lo, hi)
		}
	}
}
