// Package metrics exposes the Prometheus instruments of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters and the HTTP latency histogram. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	DonationsSubmitted prometheus.Counter
	NeedsSubmitted     prometheus.Counter
	MatchesCreated     prometheus.Counter
	// Overrides counts admin force-sets by entity ("donation", "need").
	Overrides       *prometheus.CounterVec
	ReportsFiled    prometheus.Counter
	ReportsResolved *prometheus.CounterVec
	// MatchFailures counts rejected match attempts by reason.
	MatchFailures *prometheus.CounterVec

	HTTPDuration *prometheus.HistogramVec
}

// New registers all instruments with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DonationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "donamatch_donations_submitted_total",
			Help: "Donations submitted by donors",
		}),
		NeedsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "donamatch_needs_submitted_total",
			Help: "Needs submitted by recipients",
		}),
		MatchesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "donamatch_matches_created_total",
			Help: "Donation-need matches committed",
		}),
		Overrides: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donamatch_overrides_total",
			Help: "Admin status overrides that bypass matching",
		}, []string{"entity"}),
		ReportsFiled: f.NewCounter(prometheus.CounterOpts{
			Name: "donamatch_reports_filed_total",
			Help: "Reports filed against donations",
		}),
		ReportsResolved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donamatch_reports_resolved_total",
			Help: "Reports resolved by admins, by whether the flag was cleared",
		}, []string{"flag_cleared"}),
		MatchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donamatch_match_failures_total",
			Help: "Rejected match attempts by reason",
		}, []string{"reason"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donamatch_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncDonationSubmitted() {
	if m != nil {
		m.DonationsSubmitted.Inc()
	}
}

func (m *Metrics) IncNeedSubmitted() {
	if m != nil {
		m.NeedsSubmitted.Inc()
	}
}

func (m *Metrics) IncMatchCreated() {
	if m != nil {
		m.MatchesCreated.Inc()
	}
}

// IncMatchFailure records a rejected match with a short reason such as
// "forbidden", "not_found" or "conflict".
func (m *Metrics) IncMatchFailure(reason string) {
	if m != nil {
		m.MatchFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncOverride(entity string) {
	if m != nil {
		m.Overrides.WithLabelValues(entity).Inc()
	}
}

func (m *Metrics) IncReportFiled() {
	if m != nil {
		m.ReportsFiled.Inc()
	}
}

func (m *Metrics) IncReportResolved(flagCleared bool) {
	if m != nil {
		label := "false"
		if flagCleared {
			label = "true"
		}
		m.ReportsResolved.WithLabelValues(label).Inc()
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m != nil {
		m.HTTPDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}
