package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for model calls
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
)

type Manager struct {
	// counters
	CounterRequests     *prometheus.CounterVec
	CounterLLMCalls     *prometheus.CounterVec
	CounterWodsSaved    prometheus.Counter
	CounterRateLimited  prometheus.Counter
	CounterRequestPanic prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistLLMDuration     *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("wod_analyzer", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("wod_analyzer", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterLLMCalls := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "llm_calls",
		Help:      "The total number of model calls by operation and outcome",
	}, []string{"operation", "outcome"})
	counterWodsSaved := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "wods_saved",
		Help:      "The total number of analyzed WODs written to history",
	})
	counterRateLimited := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited",
		Help:      "The total number of requests rejected by the rate limiter",
	})
	counterRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"method"},
	)
	histLLMDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			Name:      "llm_call_duration_seconds",
			Help:      "Duration of model calls in seconds",
		},
		[]string{"operation"},
	)

	return &Manager{
		CounterRequests:     counterRequests,
		CounterLLMCalls:     counterLLMCalls,
		CounterWodsSaved:    counterWodsSaved,
		CounterRateLimited:  counterRateLimited,
		CounterRequestPanic: counterRequestPanic,
		GaugeRequests:       gaugeRequests,
		HistRequestDuration: histReqDuration,
		HistLLMDuration:     histLLMDuration,
	}
}

// ObserveLLMCall records one model call. A nil manager is a no-op.
func (m *Manager) ObserveLLMCall(operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.CounterLLMCalls.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeCached {
		m.HistLLMDuration.WithLabelValues(operation).Observe(took.Seconds())
	}
}

// WodSaved counts a persisted history entry. A nil manager is a no-op.
func (m *Manager) WodSaved() {
	if m == nil {
		return
	}
	m.CounterWodsSaved.Inc()
}

// RateLimited counts a rejected request. A nil manager is a no-op.
func (m *Manager) RateLimited() {
	if m == nil {
		return
	}
	m.CounterRateLimited.Inc()
}
