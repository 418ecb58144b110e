package service

import "github.com/prometheus/client_golang/prometheus"

var marketEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "market_events_total", Help: "Count of state-changing marketplace events"},
	[]string{"event"},
)

func init() { prometheus.MustRegister(marketEvents) }

func recordEvent(event string) { marketEvents.WithLabelValues(event).Inc() }
