// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const schemaTimeout = 60 * time.Second

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

// The DDL sticks to types both DuckDB and SQLite accept. Timestamps are
// fixed-width UTC text (models.Time); report photos are a JSON text array.
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		day_of_week INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL,
		name TEXT NOT NULL,
		muscle_group TEXT NOT NULL DEFAULT '',
		target_sets INTEGER NOT NULL DEFAULT 0,
		target_reps INTEGER NOT NULL DEFAULT 0,
		rest_seconds INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sets (
		id TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		weight_kg DOUBLE NOT NULL,
		completed BOOLEAN NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS set_history (
		id TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		reps INTEGER NOT NULL,
		weight_kg DOUBLE NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cardio_sessions (
		id TEXT PRIMARY KEY,
		activity TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		distance_km DOUBLE NOT NULL,
		calories INTEGER NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS progress_photos (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		weight_kg DOUBLE,
		front TEXT,
		side TEXT,
		back TEXT,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS workout_history (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL,
		workout_name TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		volume_kg DOUBLE NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS photos (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_reports (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		week_start TEXT NOT NULL,
		total_workouts INTEGER NOT NULL,
		total_volume_kg DOUBLE NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		photos TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_workout ON exercises(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_set_history_date ON set_history(date)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_date ON photos(date)`,
}

func createTables(ctx context.Context, conn *sqlx.DB) error {
	for _, q := range schemaQueries {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}
