package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigfinder_catalog_queries_total",
		Help: "The total number of processed catalog queries",
	})
	emptyResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigfinder_catalog_empty_results_total",
		Help: "Catalog queries that matched no group",
	})
	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigfinder_fetch_failures_total",
		Help: "Failed upstream catalog fetches by source",
	}, []string{"source"})
	groupsInSnapshot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gigfinder_groups",
		Help: "Groups in the current catalog snapshot",
	})
	snapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gigfinder_snapshot_version",
		Help: "Version of the current catalog snapshot",
	})
)
