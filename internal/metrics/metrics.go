package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Rentals
	RentalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentals_total",
			Help: "Rental transitions committed, by resulting status",
		},
		[]string{"status"}, // pending|active|approved|completed|cancelled
	)
	RentalFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_failures_total",
			Help: "Rental operations rejected or aborted, by error code",
		},
		[]string{"reason"},
	)

	ReviewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_total",
			Help: "Reviews accepted",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RentalsTotal, RentalFailures, ReviewsTotal, WorkerQueueDepth)
	})
}
