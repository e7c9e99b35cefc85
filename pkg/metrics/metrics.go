package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrdersProcessed counts wire intents produced by the order managers, by side.
var OrdersProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kunzite_orders_processed_total",
		Help: "Total number of order requests turned into wire intents",
	},
	[]string{"side"},
)

// OrdersRejected counts requests rejected by the pre-trade checks, by reason.
var OrdersRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kunzite_orders_rejected_total",
		Help: "Total number of order requests rejected by risk filters",
	},
	[]string{"reason"},
)

// StatusEvents counts exchange status events applied to the lifecycle.
var StatusEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kunzite_status_events_total",
		Help: "Total number of exchange order status events processed",
	},
	[]string{"status"},
)

// EventsPublished counts events published on the bus, by topic.
var EventsPublished = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kunzite_events_published_total",
		Help: "Total number of events published on the event bus",
	},
	[]string{"topic"},
)

// RequestQueueDepth tracks pending requests per instrument queue.
var RequestQueueDepth = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "kunzite_request_queue_depth",
		Help: "Number of order requests waiting in the manager queue",
	},
	[]string{"instrument"},
)

// SendLatency records seconds from request creation to publish on the bus.
var SendLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "kunzite_order_send_latency_seconds",
		Help:    "Latency from request creation to wire intent publish",
		Buckets: prometheus.DefBuckets,
	},
)

func init() {
	prometheus.MustRegister(OrdersProcessed, OrdersRejected, StatusEvents)
	prometheus.MustRegister(EventsPublished, RequestQueueDepth, SendLatency)
}
