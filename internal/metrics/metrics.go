// Package metrics exports run counters in the Prometheus text format so a
// node_exporter textfile collector can pick them up after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"archivist/internal/report"
)

// Recorder holds the collectors for one process.
type Recorder struct {
	registry       *prometheus.Registry
	files          *prometheus.CounterVec
	skipReasons    *prometheus.CounterVec
	bytesMoved     prometheus.Counter
	foldersRemoved prometheus.Counter
	duration       prometheus.Gauge
	lastRun        prometheus.Gauge
	dryRun         prometheus.Gauge
}

// NewRecorder registers the archivist collectors on a private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archivist_files_total",
				Help: "Files seen by the last run, by result",
			},
			[]string{"result"},
		),
		skipReasons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archivist_skipped_files_total",
				Help: "Skipped files, by reason",
			},
			[]string{"reason"},
		),
		bytesMoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "archivist_bytes_moved_total",
				Help: "Bytes moved into the archive",
			},
		),
		foldersRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "archivist_folders_removed_total",
				Help: "Empty folders removed by cleanup",
			},
		),
		duration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "archivist_run_duration_seconds",
				Help: "Wall time of the last run",
			},
		),
		lastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "archivist_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
		dryRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "archivist_last_run_dry_run",
				Help: "1 when the last run was a dry run",
			},
		),
	}
}

// Observe adds a finished run to the collectors.
func (r *Recorder) Observe(rep *report.Report) {
	if rep == nil {
		return
	}
	stats := rep.Stats()
	r.files.WithLabelValues(string(report.Moved)).Add(float64(stats.Moved))
	r.files.WithLabelValues(string(report.Skipped)).Add(float64(stats.Skipped))
	r.files.WithLabelValues(string(report.Failed)).Add(float64(stats.Failed))
	for reason, count := range stats.SkipReasons {
		r.skipReasons.WithLabelValues(reason).Add(float64(count))
	}
	r.bytesMoved.Add(float64(stats.BytesMoved))
	r.foldersRemoved.Add(float64(stats.FoldersRemoved))
	r.duration.Set(rep.Duration().Seconds())
	if !rep.FinishedAt.IsZero() {
		r.lastRun.Set(float64(rep.FinishedAt.Unix()))
	}
	if rep.DryRun {
		r.dryRun.Set(1)
	} else {
		r.dryRun.Set(0)
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes the collectors to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
