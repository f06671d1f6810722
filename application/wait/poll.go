package wait

import (
	"context"
	"time"

	"practice_automation/domain/entities"
)

// Probe evaluates a condition once. observed describes the state it saw and
// ends up in the TimeoutError if the condition never holds.
type Probe func(ctx context.Context) (done bool, observed string, err error)

// Poll re-evaluates probe every interval until it reports done, returns an
// error, ctx ends or timeout elapses. A receive on wake triggers an early
// re-evaluation; wake may be nil.
func Poll(ctx context.Context, timeout, interval time.Duration, wake <-chan struct{}, condition string, probe Probe) error {
	deadline := time.Now().Add(timeout)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastObserved string
	for {
		done, observed, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		lastObserved = observed

		if !time.Now().Before(deadline) {
			return &entities.TimeoutError{Condition: condition, Timeout: timeout, LastObserved: lastObserved}
		}

		select {
		case <-ctx.Done():
			return &entities.TimeoutError{Condition: condition, Timeout: timeout, LastObserved: lastObserved, Err: ctx.Err()}
		case <-timer.C:
			// one last look at the deadline
			done, observed, err := probe(ctx)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			return &entities.TimeoutError{Condition: condition, Timeout: timeout, LastObserved: observed}
		case <-ticker.C:
		case <-wake:
		}
	}
}
