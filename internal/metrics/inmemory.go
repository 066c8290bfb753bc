package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded           uint64
	LoginsFailed              uint64
	LoginsInvalid             uint64
	RegistrationsSucceeded    uint64
	RegistrationsConflicted   uint64
	RegistrationsInvalid      uint64
	Logouts                   uint64
	SessionsValid             uint64
	SessionsInvalid           uint64
	RateLimited               uint64
	ProfilesUpdated           uint64
	OrderQueryDurationCount   uint64
	OrderQueryDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	loginsSucceeded           uint64
	loginsFailed              uint64
	loginsInvalid             uint64
	registrationsSucceeded    uint64
	registrationsConflicted   uint64
	registrationsInvalid      uint64
	logouts                   uint64
	sessionsValid             uint64
	sessionsInvalid           uint64
	rateLimited               uint64
	profilesUpdated           uint64
	orderQueryDurationCount   uint64
	orderQueryDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginsSucceeded:           atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:              atomic.LoadUint64(&m.loginsFailed),
		LoginsInvalid:             atomic.LoadUint64(&m.loginsInvalid),
		RegistrationsSucceeded:    atomic.LoadUint64(&m.registrationsSucceeded),
		RegistrationsConflicted:   atomic.LoadUint64(&m.registrationsConflicted),
		RegistrationsInvalid:      atomic.LoadUint64(&m.registrationsInvalid),
		Logouts:                   atomic.LoadUint64(&m.logouts),
		SessionsValid:             atomic.LoadUint64(&m.sessionsValid),
		SessionsInvalid:           atomic.LoadUint64(&m.sessionsInvalid),
		RateLimited:               atomic.LoadUint64(&m.rateLimited),
		ProfilesUpdated:           atomic.LoadUint64(&m.profilesUpdated),
		OrderQueryDurationCount:   atomic.LoadUint64(&m.orderQueryDurationCount),
		OrderQueryDurationTotalNs: atomic.LoadInt64(&m.orderQueryDurationTotalNs),
	}
}

// IncLogin increments the login counter for result.
func (m *InMemoryRecorder) IncLogin(result string) {
	switch result {
	case ResultSuccess:
		atomic.AddUint64(&m.loginsSucceeded, 1)
	case ResultInvalid:
		atomic.AddUint64(&m.loginsInvalid, 1)
	default:
		atomic.AddUint64(&m.loginsFailed, 1)
	}
}

// IncRegistration increments the registration counter for result.
func (m *InMemoryRecorder) IncRegistration(result string) {
	switch result {
	case ResultSuccess:
		atomic.AddUint64(&m.registrationsSucceeded, 1)
	case ResultConflict:
		atomic.AddUint64(&m.registrationsConflicted, 1)
	default:
		atomic.AddUint64(&m.registrationsInvalid, 1)
	}
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncSessionResolved counts session lookups by outcome.
func (m *InMemoryRecorder) IncSessionResolved(valid bool) {
	if valid {
		atomic.AddUint64(&m.sessionsValid, 1)
		return
	}
	atomic.AddUint64(&m.sessionsInvalid, 1)
}

// IncRateLimited increments the rate-limited request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncProfileUpdated increments the profile update counter.
func (m *InMemoryRecorder) IncProfileUpdated() {
	atomic.AddUint64(&m.profilesUpdated, 1)
}

// ObserveOrderQueryDuration records order history query duration.
func (m *InMemoryRecorder) ObserveOrderQueryDuration(duration time.Duration) {
	atomic.AddUint64(&m.orderQueryDurationCount, 1)
	atomic.AddInt64(&m.orderQueryDurationTotalNs, duration.Nanoseconds())
}
