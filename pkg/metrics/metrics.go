package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BusEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_bus_events_published_total",
			Help: "Events published on the in-process bus",
		},
		[]string{"topic"},
	)

	BusEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_bus_events_dropped_total",
			Help: "Events published to a topic with no subscribers",
		},
		[]string{"topic"},
	)

	BusHandlerPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_bus_handler_panics_total",
			Help: "Subscriber handlers that panicked during delivery",
		},
		[]string{"topic"},
	)

	CommandsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_commands_dispatched_total",
			Help: "Commands published towards devices",
		},
		[]string{"name"},
	)

	CommandsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_commands_rejected_total",
			Help: "Commands rejected before publishing",
		},
		[]string{"reason"},
	)

	SimulatorTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_simulator_ticks_total",
			Help: "Simulator generator ticks",
		},
		[]string{"generator"},
	)

	SimulatorFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_simulator_faults_total",
			Help: "Simulator ticks skipped because the payload could not be built",
		},
		[]string{"generator"},
	)

	HttpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smd_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smd_stream_clients",
			Help: "Connected websocket stream clients",
		},
	)
)
