package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the import pipeline.
//
// Metrics:
//   - petcase_import_files_total{source,status} - previewed files
//   - petcase_import_records_total{outcome} - committed, skipped and failed rows
//   - petcase_import_owners_total{resolution} - owner reuse vs creation
//   - petcase_import_duration_seconds{operation} - preview and commit latency
type Metrics struct {
	FilesTotal   *prometheus.CounterVec
	RecordsTotal *prometheus.CounterVec
	OwnersTotal  *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
}

// Record outcomes and owner resolutions used as label values.
const (
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"

	OwnerMatchedPhone = "matched_phone"
	OwnerMatchedName  = "matched_name"
	OwnerCreated      = "created"
)

// NewMetrics registers the import collectors on reg. A nil reg yields
// collectors that are never registered, which suits tests and the CLI.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petcase_import_files_total",
				Help: "Total number of files previewed, by detected source and status",
			},
			[]string{"source", "status"},
		),
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petcase_import_records_total",
				Help: "Total number of records processed by commit, by outcome",
			},
			[]string{"outcome"},
		),
		OwnersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petcase_import_owners_total",
				Help: "Owner resolutions during commit",
			},
			[]string{"resolution"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petcase_import_duration_seconds",
				Help:    "Duration of preview and commit calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) recordFile(src SourceSystem, status FileStatus) {
	if m == nil {
		return
	}
	if src == "" {
		src = "unknown"
	}
	m.FilesTotal.WithLabelValues(string(src), string(status)).Inc()
}

func (m *Metrics) recordRecord(outcome string) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordOwner(resolution string) {
	if m == nil {
		return
	}
	m.OwnersTotal.WithLabelValues(resolution).Inc()
}

func (m *Metrics) observe(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
