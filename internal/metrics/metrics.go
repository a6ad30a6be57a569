// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backup Metrics
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_backups_total",
			Help: "Total number of backup attempts",
		},
		[]string{"kind", "result"},
	)

	BackupSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "liftlog_backup_size_bytes",
			Help: "Size of the last stored snapshot in bytes",
		},
		[]string{"kind"},
	)

	BackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "liftlog_backup_duration_seconds",
			Help:    "Time to build and store a snapshot in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	BackupLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "liftlog_backup_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last stored backup",
		},
	)

	BackupsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liftlog_backups_skipped_total",
			Help: "Automatic backup runs skipped because the interval had not elapsed",
		},
	)

	// Retention Metrics
	RetentionDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_retention_deleted_total",
			Help: "Total number of entries removed by retention sweeps",
		},
		[]string{"kind"},
	)

	BackupEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "liftlog_backup_entries",
			Help: "Number of stored backup entries after the last sweep",
		},
	)

	// Image Metrics
	ImagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_images_processed_total",
			Help: "Images handled by the snapshot compressor",
		},
		[]string{"outcome"},
	)

	// Restore Metrics
	RestoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_restores_total",
			Help: "Total number of restore attempts",
		},
		[]string{"result"},
	)

	RestoredRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_restored_rows_total",
			Help: "Rows inserted by restores",
		},
		[]string{"table"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordBackup records a backup attempt of the given kind. size is ignored
// on error.
func RecordBackup(kind string, size int, duration time.Duration, err error) {
	BackupsTotal.WithLabelValues(kind, resultLabel(err)).Inc()
	BackupDuration.Observe(duration.Seconds())
	if err == nil {
		BackupSizeBytes.WithLabelValues(kind).Set(float64(size))
		BackupLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordBackupSkipped records an automatic run that was not due.
func RecordBackupSkipped() {
	BackupsSkipped.Inc()
}

// RecordRetention records a retention sweep.
func RecordRetention(kind string, deleted, remaining int) {
	if deleted > 0 {
		RetentionDeleted.WithLabelValues(kind).Add(float64(deleted))
	}
	BackupEntries.Set(float64(remaining))
}

// RecordImage records one compressor outcome.
func RecordImage(outcome string) {
	ImagesProcessed.WithLabelValues(outcome).Inc()
}

// RecordRestore records a restore attempt with its per-table row counts.
func RecordRestore(rows map[string]int, err error) {
	RestoresTotal.WithLabelValues(resultLabel(err)).Inc()
	for table, n := range rows {
		RestoredRows.WithLabelValues(table).Add(float64(n))
	}
}

// WriteTextfile writes the default registry to path in the Prometheus text
// format, creating the parent directory if needed. The write is atomic.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
