// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
Package metrics provides Prometheus instrumentation for backup and restore.

Liftlog has no HTTP surface, so metrics are not scraped. Instead every CLI
command writes the default registry to a node_exporter textfile when
metrics.textfile_path is configured:

	metrics:
	  textfile_path: /var/lib/node_exporter/textfile/liftlog.prom

# Available Metrics

Backup Metrics:
  - liftlog_backups_total: Backup attempts (counter)
    Labels: kind (full, partial, emergency, essential), result (success, error)
  - liftlog_backup_size_bytes: Size of the last stored snapshot (gauge)
    Labels: kind
  - liftlog_backup_duration_seconds: Time to build and store a snapshot (histogram)
  - liftlog_backup_last_success_timestamp_seconds: Unix time of the last stored backup (gauge)
  - liftlog_backups_skipped_total: Automatic runs that were not due (counter)

Retention Metrics:
  - liftlog_retention_deleted_total: Entries removed by retention sweeps (counter)
    Labels: kind
  - liftlog_backup_entries: Stored entries after the last sweep (gauge)

Image Metrics:
  - liftlog_images_processed_total: Images seen by the compressor (counter)
    Labels: outcome (compressed, fallback, skipped)

Restore Metrics:
  - liftlog_restores_total: Restore attempts (counter)
    Labels: result
  - liftlog_restored_rows_total: Rows inserted by restores (counter)
    Labels: table
*/
package metrics
