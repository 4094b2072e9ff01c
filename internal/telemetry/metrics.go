package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	channelHealthy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pulsegate",
			Name:      "channel_healthy",
			Help:      "Per-channel verdict from the most recent evaluation (1 healthy, 0 stale).",
		},
		[]string{"channel"},
	)

	systemHealthy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pulsegate",
			Name:      "system_healthy",
			Help:      "Aggregate health from the most recent supervisor tick (1 healthy, 0 stale).",
		},
	)

	arrivalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsegate",
			Name:      "arrivals_total",
			Help:      "Total arrivals recorded per channel.",
		},
		[]string{"channel"},
	)

	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulsegate",
			Name:      "evaluations_total",
			Help:      "Total evaluation cycles per channel, labeled by verdict.",
		},
		[]string{"channel", "verdict"},
	)

	commandsForwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pulsegate",
			Name:      "commands_forwarded_total",
			Help:      "Inbound commands forwarded unchanged.",
		},
	)

	commandsGated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pulsegate",
			Name:      "commands_gated_total",
			Help:      "Inbound commands replaced with the neutral command.",
		},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "pulsegate",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(channelHealthy, systemHealthy, arrivalsTotal,
		evaluationsTotal, commandsForwarded, commandsGated, uptime)
}

// MetricsHandler exposes /metrics. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func CountArrival(channel string) {
	arrivalsTotal.WithLabelValues(channel).Inc()
}

func CountEvaluation(channel string, healthy bool) {
	evaluationsTotal.WithLabelValues(channel, verdictLabel(healthy)).Inc()
}

func SetChannelHealth(channel string, healthy bool) {
	channelHealthy.WithLabelValues(channel).Set(boolGauge(healthy))
}

func SetSystemHealth(healthy bool) {
	systemHealthy.Set(boolGauge(healthy))
}

func CountCommand(gated bool) {
	if gated {
		commandsGated.Inc()
	} else {
		commandsForwarded.Inc()
	}
}

func verdictLabel(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "stale"
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
