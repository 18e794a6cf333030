package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	OnlinePlayers   prometheus.Gauge
	ActiveRooms     prometheus.Gauge
	Connections     prometheus.Gauge
	ActionsReceived *prometheus.CounterVec
	ActionsRejected *prometheus.CounterVec
	EventsEmitted   *prometheus.CounterVec
	ActionLatency   prometheus.Histogram
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of players seated in a room",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "socket_connections",
			Help:      "Number of open socket connections",
		}),
		ActionsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_received_total",
			Help:      "Inbound actions by wire event",
		}, []string{"event"}),
		ActionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_rejected_total",
			Help:      "Rejected inbound actions by error code",
		}, []string{"code"}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Outbound events by name",
		}, []string{"event"}),
		ActionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_latency_seconds",
			Help:      "Inbound action processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.Connections,
		m.ActionsReceived,
		m.ActionsRejected,
		m.EventsEmitted,
		m.ActionLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SetActiveRooms(count int) {
	m.ActiveRooms.Set(float64(count))
}

func (m *Metrics) SetOnlinePlayers(count int) {
	m.OnlinePlayers.Set(float64(count))
}

func (m *Metrics) ConnectionOpened() { m.Connections.Inc() }

func (m *Metrics) ConnectionClosed() { m.Connections.Dec() }

// ObserveAction records one inbound action and how long it took. code is
// empty for accepted actions.
func (m *Metrics) ObserveAction(event, code string, d time.Duration) {
	m.ActionsReceived.WithLabelValues(event).Inc()
	if code != "" {
		m.ActionsRejected.WithLabelValues(code).Inc()
	}
	m.ActionLatency.Observe(d.Seconds())
}

func (m *Metrics) EventEmitted(name string) {
	m.EventsEmitted.WithLabelValues(name).Inc()
}
