package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type StoreMetrics struct {
	RequestDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	AllocationsTotal *prometheus.CounterVec
	OverdueMembers   prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chitfund_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Store = StoreMetrics{
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chitfund_store_request_duration_seconds",
				Help:    "Histogram of upstream store request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
	}

	Business = BusinessMetrics{
		AllocationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitfund_allocations_total",
				Help: "Total number of allocation plans computed, by outcome.",
			},
			[]string{"operation", "status"},
		),
		OverdueMembers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "chitfund_overdue_members",
				Help: "Number of active memberships with overdue installments at the last batch run.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordStoreRequest(operation, status string, duration time.Duration) {
	Store.RequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func RecordAllocation(operation, status string) {
	Business.AllocationsTotal.WithLabelValues(operation, status).Inc()
}

func SetOverdueMembers(count int) {
	Business.OverdueMembers.Set(float64(count))
}
