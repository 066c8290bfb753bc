// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Result labels shared by the auth counters.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncLogin(result string)        // result: "success", "failure", "invalid"
	IncRegistration(result string) // result: "success", "conflict", "invalid"
	IncLogout()
	IncSessionResolved(valid bool)
	IncRateLimited()

	// Profile metrics
	IncProfileUpdated()

	// Order history metrics
	ObserveOrderQueryDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
