package handler

import (
	"fmt"
	"net/http"

	"github.com/shopverse/shopverse/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "shopverse_logins_total{result=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "shopverse_logins_total{result=\"failure\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "shopverse_logins_total{result=\"invalid\"} %d\n", snap.LoginsInvalid)

	writeMetric(w, "shopverse_registrations_total{result=\"success\"} %d\n", snap.RegistrationsSucceeded)
	writeMetric(w, "shopverse_registrations_total{result=\"conflict\"} %d\n", snap.RegistrationsConflicted)
	writeMetric(w, "shopverse_registrations_total{result=\"invalid\"} %d\n", snap.RegistrationsInvalid)

	writeMetric(w, "shopverse_logouts_total %d\n", snap.Logouts)
	writeMetric(w, "shopverse_sessions_resolved_total{valid=\"true\"} %d\n", snap.SessionsValid)
	writeMetric(w, "shopverse_sessions_resolved_total{valid=\"false\"} %d\n", snap.SessionsInvalid)
	writeMetric(w, "shopverse_rate_limited_total %d\n", snap.RateLimited)

	writeMetric(w, "shopverse_profile_updates_total %d\n", snap.ProfilesUpdated)

	writeMetric(w, "shopverse_order_query_duration_seconds_count %d\n", snap.OrderQueryDurationCount)
	writeMetric(w, "shopverse_order_query_duration_seconds_sum %.6f\n", float64(snap.OrderQueryDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
