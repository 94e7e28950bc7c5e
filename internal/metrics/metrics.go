package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InspectionsTotal tracks completed inspections per trigger (cli, api, watch)
	InspectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qc_inspections_total",
			Help: "Total number of completed inspection batches",
		},
		[]string{"trigger"},
	)

	// InspectionErrorsTotal tracks batches that failed before producing a report
	InspectionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qc_inspection_errors_total",
			Help: "Total number of inspection batches rejected as invalid input",
		},
		[]string{"trigger"},
	)

	// PartsTotal tracks classified parts by verdict
	PartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qc_parts_total",
			Help: "Total number of classified parts",
		},
		[]string{"status"},
	)

	// ViolationsTotal tracks failed acceptance rules by code
	ViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qc_violations_total",
			Help: "Total number of acceptance rule violations",
		},
		[]string{"code"},
	)

	// AlertsTotal tracks batches whose rejection rate exceeded the threshold
	AlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qc_alerts_total",
			Help: "Total number of batches above the rejection alert threshold",
		},
	)

	// LastRejectionRate tracks the rejected percentage of the most recent batch
	LastRejectionRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qc_last_rejection_rate_percent",
			Help: "Rejected percentage of the most recent inspection batch",
		},
	)

	// InspectionDuration tracks parse+classify+summarize latency
	InspectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qc_inspection_duration_seconds",
			Help:    "Inspection batch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
