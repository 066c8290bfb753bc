package metrics

import (
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncLogin(ResultSuccess)
	m.IncLogin(ResultFailure)
	m.IncLogin(ResultFailure)
	m.IncLogin(ResultInvalid)
	m.IncRegistration(ResultSuccess)
	m.IncRegistration(ResultConflict)
	m.IncRegistration(ResultInvalid)
	m.IncLogout()
	m.IncSessionResolved(true)
	m.IncSessionResolved(false)
	m.IncRateLimited()
	m.IncProfileUpdated()
	m.ObserveOrderQueryDuration(1500 * time.Millisecond)

	snap := m.Snapshot()
	want := Snapshot{
		LoginsSucceeded:           1,
		LoginsFailed:              2,
		LoginsInvalid:             1,
		RegistrationsSucceeded:    1,
		RegistrationsConflicted:   1,
		RegistrationsInvalid:      1,
		Logouts:                   1,
		SessionsValid:             1,
		SessionsInvalid:           1,
		RateLimited:               1,
		ProfilesUpdated:           1,
		OrderQueryDurationCount:   1,
		OrderQueryDurationTotalNs: int64(1500 * time.Millisecond),
	}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
}

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncLogin(ResultSuccess)
	r.ObserveOrderQueryDuration(time.Second)
}
