// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
Package services provides suture.Service wrappers for Liftlog components.

Each wrapper turns a periodic job into suture's context-aware Serve loop and
implements fmt.Stringer so the supervisor can name it in log output.

# Available Services

Backup Scheduler (BackupSchedulerService):
  - Optionally restores an empty database from the newest backup on start
  - Runs the automatic backup path once, then on every Period tick
  - Failed runs are logged and retried on the next tick, never restarted

Store Maintenance (StoreMaintenanceService):
  - Runs badger value log GC every Interval
  - Rewrites the Prometheus textfile after each pass and on shutdown
  - A GC error ends Serve so the storage layer restarts it with backoff

# Shutdown

Both services return ctx.Err() once the context is canceled. The scheduler
passes ctx to the manager, so an in-flight backup sees the cancellation at
its next I/O call.
*/
package services
