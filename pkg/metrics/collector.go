package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_callbacks_total",
			Help: "Total number of callbacks handled labeled by action and status",
		},
		[]string{"action", "status"},
	)
	callbackDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "callback_duration_seconds",
			Help:    "Duration of callback handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	alarmFiresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alarm_fires_total",
			Help: "Total number of daily alarm deliveries by status",
		},
		[]string{"status"},
	)
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of market data provider requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
	activeAlarms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_alarms",
			Help: "Current number of armed daily alarms",
		},
	)
)

// RecordCallback increments callback counters and records duration.
func RecordCallback(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	callbacksTotal.WithLabelValues(action, status).Inc()
	callbackDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordAlarmFire counts a daily digest delivery attempt.
func RecordAlarmFire(status string) {
	if status == "" {
		status = "unknown"
	}

	alarmFiresTotal.WithLabelValues(status).Inc()
}

// RecordProviderRequest counts a market data provider request.
func RecordProviderRequest(endpoint, status string) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	providerRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// SetActiveAlarms updates the gauge tracking armed alarms.
func SetActiveAlarms(count int) {
	activeAlarms.Set(float64(count))
}
