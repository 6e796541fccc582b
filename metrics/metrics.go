// Package metrics holds the Prometheus collectors of the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	Videos         prometheus.Gauge
	MeanDuration   prometheus.Gauge
	LastSuccess    prometheus.Gauge
	RequestsServed *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "videotime_pipeline_runs_total",
				Help: "Pipeline runs, by outcome.",
			},
			[]string{"outcome"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "videotime_pipeline_run_duration_seconds",
				Help:    "Duration of pipeline runs.",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		Videos: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "videotime_videos",
				Help: "Number of videos in the last stored snapshot.",
			},
		),
		MeanDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "videotime_mean_duration_seconds",
				Help: "Mean video duration of the last stored snapshot.",
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "videotime_last_success_timestamp_seconds",
				Help: "Unix time of the last successful pipeline run.",
			},
		),
		RequestsServed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "videotime_http_requests_total",
				Help: "HTTP requests served, by api and status.",
			},
			[]string{"api", "status"},
		),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.Videos,
		m.MeanDuration,
		m.LastSuccess,
		m.RequestsServed,
	)

	return m
}
