// Package metrics exposes Prometheus collectors for HTTP traffic and for the
// live state of the floor.
package metrics

import (
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "floor"

// Collectors groups the request and event metrics.
type Collectors struct {
	HTTPDuration *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
	Events       *prometheus.CounterVec
}

func New() *Collectors {
	return &Collectors{
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "events_total",
				Help:      "Committed floor events by type",
			},
			[]string{"type"},
		),
	}
}

func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.HTTPDuration, c.HTTPRequests, c.Events)
}

// CountEvents is a floor.Listener.
func (c *Collectors) CountEvents(events []floor.Event) {
	for _, e := range events {
		c.Events.WithLabelValues(e.Type).Inc()
	}
}

// FloorReader is the read side of floor.State the gauges need.
// Satisfied by *floor.State; narrow interface for testability.
type FloorReader interface {
	Tables() []floor.Table
	ActiveOrders() []floor.Order
	HasNewOrders(display enum.Display) bool
}

// DisplayCounter reports connected screens. Satisfied by *ws.Hub.
type DisplayCounter interface {
	ClientCount(display enum.Display) int
}

// FloorCollector samples table occupancy, open orders and display state on
// every scrape.
type FloorCollector struct {
	state    FloorReader
	displays DisplayCounter

	tables      *prometheus.Desc
	openOrders  *prometheus.Desc
	openAmount  *prometheus.Desc
	unread      *prometheus.Desc
	connections *prometheus.Desc
}

// NewFloorCollector returns a collector over state. displays may be nil.
func NewFloorCollector(state FloorReader, displays DisplayCounter) *FloorCollector {
	return &FloorCollector{
		state:    state,
		displays: displays,
		tables: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "tables", "count"),
			"Tables by occupancy state", []string{"state"}, nil),
		openOrders: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "orders", "open"),
			"Orders not yet delivered or canceled, by status", []string{"status"}, nil),
		openAmount: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "orders", "open_amount"),
			"Sum of totals over open unpaid orders", nil, nil),
		unread: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "display", "unread"),
			"1 when a display has unseen orders", []string{"display"}, nil),
		connections: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "display", "connections"),
			"Connected screens per display", []string{"display"}, nil),
	}
}

func (c *FloorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tables
	ch <- c.openOrders
	ch <- c.openAmount
	ch <- c.unread
	if c.displays != nil {
		ch <- c.connections
	}
}

func (c *FloorCollector) Collect(ch chan<- prometheus.Metric) {
	var free, occupied, reserved float64
	for _, t := range c.state.Tables() {
		switch {
		case t.IsOccupied:
			occupied++
		case t.IsReserved:
			reserved++
		default:
			free++
		}
	}
	ch <- prometheus.MustNewConstMetric(c.tables, prometheus.GaugeValue, free, "free")
	ch <- prometheus.MustNewConstMetric(c.tables, prometheus.GaugeValue, occupied, "occupied")
	ch <- prometheus.MustNewConstMetric(c.tables, prometheus.GaugeValue, reserved, "reserved")

	byStatus := map[enum.OrderStatus]float64{
		enum.OrderStatusPending:   0,
		enum.OrderStatusPreparing: 0,
		enum.OrderStatusReady:     0,
	}
	var amount float64
	for _, o := range c.state.ActiveOrders() {
		byStatus[o.Status]++
		if !o.IsPaid {
			amount += o.TotalAmount.InexactFloat64()
		}
	}
	for status, n := range byStatus {
		ch <- prometheus.MustNewConstMetric(c.openOrders, prometheus.GaugeValue, n, string(status))
	}
	ch <- prometheus.MustNewConstMetric(c.openAmount, prometheus.GaugeValue, amount)

	for _, d := range []enum.Display{enum.DisplayKitchen, enum.DisplayDrinks, enum.DisplayFloor} {
		var v float64
		if c.state.HasNewOrders(d) {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.unread, prometheus.GaugeValue, v, string(d))
		if c.displays != nil {
			ch <- prometheus.MustNewConstMetric(c.connections, prometheus.GaugeValue, float64(c.displays.ClientCount(d)), string(d))
		}
	}
}
