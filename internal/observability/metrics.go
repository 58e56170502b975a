package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the relay.
type Metrics struct {
	FetchesTotal  *prometheus.CounterVec   // labels: target={observations,forecast,notifications}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: target

	DeltasPublished prometheus.Counter
	MetaPublished   prometheus.Counter

	// Notification reconciliation metrics.
	ActiveNotifications     prometheus.Gauge
	NotificationTransitions *prometheus.CounterVec // labels: transition={activated,refreshed,cancelled,expired}

	UpstreamRequests *prometheus.CounterVec // labels: endpoint, outcome={success,error}
	SchedulerRunning prometheus.Gauge
}

// NewMetrics creates and registers all relay metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.DeltasPublished,
		m.MetaPublished,
		m.ActiveNotifications,
		m.NotificationTransitions,
		m.UpstreamRequests,
		m.SchedulerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "fetches_total",
			Help:      "Fetch cycles by target and outcome.",
		}, []string{"target", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_relay",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete fetch-convert-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"target"}),
		DeltasPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "deltas_published_total",
			Help:      "Total path/value deltas published to the bus.",
		}),
		MetaPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "meta_published_total",
			Help:      "Total one-time unit metadata records published.",
		}),
		ActiveNotifications: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_relay",
			Name:      "active_notifications",
			Help:      "Notifications currently in a non-normal state.",
		}),
		NotificationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "notification_transitions_total",
			Help:      "Notification state transitions by kind.",
		}, []string{"transition"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_relay",
			Name:      "upstream_requests_total",
			Help:      "NWS API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_relay",
			Name:      "scheduler_running",
			Help:      "1 when the scheduler is active, 0 when shut down.",
		}),
	}
}
