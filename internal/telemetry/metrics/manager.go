package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterSessionsStarted     prometheus.Counter
	CounterSessionsCompleted   prometheus.Counter
	CounterSetsCompleted       prometheus.Counter
	CounterEffortsRecorded     prometheus.Counter
	CounterProfilesUpserted    prometheus.Counter
	CounterSessionConflicts    prometheus.Counter
	CounterAssessments         prometheus.Counter

	// gauges
	GaugeRequests    prometheus.Gauge
	GaugeConnections prometheus.Gauge
	GaugeLifeSignal  prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	newCounter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeConnections := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "open_connections",
		Help:      "Current number of open client connections",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  newCounter("handle_request_panic", "The total number of serve request panics"),
		CounterRateLimitedRequests: newCounter("rate_limited_requests", "The total number of rate limited requests"),
		CounterSessionsStarted:     newCounter("sessions_started", "The total number of workout sessions started"),
		CounterSessionsCompleted:   newCounter("sessions_completed", "The total number of workout sessions completed"),
		CounterSetsCompleted:       newCounter("sets_completed", "The total number of sets marked done"),
		CounterEffortsRecorded:     newCounter("efforts_recorded", "The total number of recorded RIR efforts"),
		CounterProfilesUpserted:    newCounter("progression_profiles_upserted", "The total number of progression profile upserts"),
		CounterSessionConflicts:    newCounter("session_revision_conflicts", "Session writes retried due to a concurrent modification"),
		CounterAssessments:         newCounter("assessments", "The total number of recorded assessments"),
		GaugeRequests:              gaugeRequests,
		GaugeConnections:           gaugeConnections,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistogramRequestDuration:   histogramRequestDuration,
	}
}
