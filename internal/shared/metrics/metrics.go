package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RidesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nova_rides_created_total",
		Help: "Total number of ride requests created.",
	})
	RidesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nova_rides_accepted_total",
		Help: "Total number of rides accepted by drivers.",
	})
	RidesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nova_rides_completed_total",
		Help: "Total number of completed rides.",
	})
	RidesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nova_rides_cancelled_total",
		Help: "Total number of cancelled rides.",
	})
	SOSAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nova_sos_alerts_total",
		Help: "Total number of SOS activations.",
	})
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nova_ws_connections",
		Help: "Number of currently connected WebSocket clients.",
	})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
