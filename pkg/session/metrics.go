package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dateSelects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_date_selects_total",
		Help: "The total number of date range changes",
	})
	clearAlls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_clear_all_total",
		Help: "The total number of clear all cascades",
	})
	pageRefines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_page_refines_total",
		Help: "The total number of pagination clicks that changed page",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskfilters_sessions",
		Help: "The number of sessions held in memory",
	})
)
