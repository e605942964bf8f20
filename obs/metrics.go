package obs

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/benefits-engine/benefits"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = register(reg, m.ReqTotal)
	m.ReqDur = register(reg, m.ReqDur)
	m.InFlight = register(reg, m.InFlight)
	return m
}

// RosterMetrics tracks roster mutations and the latest summary.
type RosterMetrics struct {
	Mutations      *prometheus.CounterVec
	Employees      prometheus.Gauge
	Dependents     prometheus.Gauge
	CombinedYearly prometheus.Gauge
	LastPublished  prometheus.Gauge
}

// NewRosterMetrics registers and returns roster collectors.
func NewRosterMetrics(namespace string, reg prometheus.Registerer) *RosterMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string) prometheus.Gauge {
		return register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help,
		}))
	}
	return &RosterMetrics{
		Mutations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_mutations_total",
			Help:      "Roster mutations by operation and result.",
		}, []string{"op", "result"})),
		Employees:      gauge("roster_employees", "Employees in the roster."),
		Dependents:     gauge("roster_dependents", "Dependents across all employees."),
		CombinedYearly: gauge("roster_combined_yearly_cost", "Combined yearly benefits cost."),
		LastPublished:  gauge("roster_summary_published_timestamp_seconds", "Unix time of the last summary refresh."),
	}
}

// ObserveMutation counts one mutation. A nil receiver is a no-op.
func (m *RosterMetrics) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

// Publish sets the gauges from a summary; no data sets them to zero.
func (m *RosterMetrics) Publish(totals benefits.SummaryTotals, ok bool, at time.Time) {
	if m == nil {
		return
	}
	if !ok {
		totals = benefits.SummaryTotals{}
	}
	m.Employees.Set(float64(totals.EmployeeCount))
	m.Dependents.Set(float64(totals.DependentCount))
	m.CombinedYearly.Set(totals.CombinedYearlyTotal)
	m.LastPublished.Set(float64(at.Unix()))
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
