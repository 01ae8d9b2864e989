package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signalgate_connections_open",
		Help: "Number of registered live connections",
	})

	SignalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signalgate_signals_total",
		Help: "The total number of signals ingested",
	})

	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signalgate_broadcasts_total",
		Help: "Broadcast events routed, by stream",
	}, []string{"stream"})

	SendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signalgate_send_errors_total",
		Help: "Per-connection send failures and drops (swallowed)",
	})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signalgate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
