package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/skilltrail/internal/curriculum"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skilltrail_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skilltrail_http_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skilltrail_roadmap_generations_total",
			Help: "Roadmap generations by source (model, simulated, fallback)",
		},
		[]string{"source"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skilltrail_roadmap_generation_duration_seconds",
			Help:    "Roadmap generation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	progressSavesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skilltrail_progress_saves_total",
			Help: "Total number of completion-set saves",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		generationsTotal,
		generationDuration,
		progressSavesTotal,
	)
}

// RecordRequest records one API request.
func RecordRequest(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordGeneration records one roadmap generation.
func RecordGeneration(source curriculum.Source, d time.Duration) {
	generationsTotal.WithLabelValues(string(source)).Inc()
	generationDuration.Observe(d.Seconds())
}

func RecordProgressSave() {
	progressSavesTotal.Inc()
}
