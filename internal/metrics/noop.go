package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(result string) {}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(result string) {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// IncSessionResolved is a no-op.
func (n *NoopRecorder) IncSessionResolved(valid bool) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}

// IncProfileUpdated is a no-op.
func (n *NoopRecorder) IncProfileUpdated() {}

// ObserveOrderQueryDuration is a no-op.
func (n *NoopRecorder) ObserveOrderQueryDuration(duration time.Duration) {}
