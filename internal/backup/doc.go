// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package backup creates, stores, rotates and restores JSON snapshots of the
// local workout database.
//
// # Overview
//
// A snapshot is a single JSON document holding every row of the nine tracked
// tables plus a metadata header:
//
//	{
//	  "metadata": {"date": "...", "size": 12345, "tables": [...], "essential": false},
//	  "treinos": [...], "exercicios": [...], ..., "relatorios": [...]
//	}
//
// Snapshots are stored in a flat key/value store (internal/kvstore) under keys
// of the form backup_2026-10-18T09-30-00-123Z. Each entry may carry sideband
// keys:
//
//	<key>_isParcial    images were stripped (size limit, or essential backup)
//	<key>_isEmergency  images were stripped after a quota error
//	<key>_info         sizes and image counts of a size-stripped entry
//
// # Backup Kinds
//
//	Full      - all tables, trimmed and with images recompressed
//	Partial   - a full snapshot with images stripped (Reason: size or quota)
//	Essential - no photo tables, no report photos, no trimming
//
// # Paths
//
//	PerformAutomaticBackup - full path, only when the interval has elapsed
//	ManualBackup           - full path, always
//	ManualEssentialBackup  - essential path, always
//
// After every stored backup a retention sweep deletes the oldest entries
// beyond the per-kind ceiling (RetentionPolicy).
//
// # Restore
//
// RestoreBackup decodes an entry and replaces the whole database inside a
// single transaction. CheckAndRestoreIfNeeded does this at startup only when
// the database has no workouts and no exercises.
//
// # Usage
//
//	mgr, err := backup.NewManager(&cfg.Backup, db, store, store, imaging.New(cfg.Imaging))
//	if err != nil {
//		return err
//	}
//	if _, err := mgr.CheckAndRestoreIfNeeded(ctx); err != nil {
//		logging.Warn().Err(err).Msg("Startup restore failed")
//	}
//	key, ran, err := mgr.PerformAutomaticBackup(ctx)
package backup
