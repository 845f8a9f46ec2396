/*
Package resilience provides a small circuit breaker used to stop hammering
an event sink that keeps rejecting deliveries.

The breaker has three states. Closed lets every call through and counts
consecutive failures. Once the threshold is reached it opens and rejects
calls with ErrCircuitOpen until the cooldown elapses. The first call after
the cooldown runs in half-open state: success closes the breaker, failure
opens it again. The breaker never retries and never blocks.

# Usage

	breaker := resilience.New("view-events", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         2 * time.Second,
	})

	err := breaker.Execute(func() error {
		return sink.Emit(frame)
	})
*/
package resilience
