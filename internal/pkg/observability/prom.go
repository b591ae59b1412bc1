package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "pocketstats"
)

var (
	OverviewRecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "overview", "recompute_duration_seconds"),
		Help:    "Duration of overview recomputation in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	OverviewMemo = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "overview", "memo_total"),
		Help: "Overview memo lookups by result",
	}, []string{"result"})
	SiteStatsFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "sitestats", "fetch_failures_total"),
		Help: "Site stats fetches that failed after every retry",
	})
	CollectionEventConsumeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "collection", "consume_duration_seconds"),
		Help:    "Duration of collection-updated event consumption in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	})
	WorkerRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "recomputes_total"),
		Help: "Overview recomputations triggered by workers",
	}, []string{"worker", "result"})
	WorkerCalcDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "calc_duration_seconds"),
		Help: "Duration of last worker calculation in seconds",
	}, []string{"service"})
)
