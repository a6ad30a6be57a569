// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/liftlog/internal/models"
)

// tableSpec lists the columns of one table. Column names match the db tags
// of the corresponding models type.
type tableSpec struct {
	columns []string
	orderBy string
}

var tableSpecs = map[models.Table]tableSpec{
	models.TableWorkouts: {
		columns: []string{"id", "name", "description", "day_of_week", "created_at"},
		orderBy: "created_at, id",
	},
	models.TableExercises: {
		columns: []string{"id", "workout_id", "name", "muscle_group", "target_sets", "target_reps", "rest_seconds", "sort_order"},
		orderBy: "workout_id, sort_order, id",
	},
	models.TableSets: {
		columns: []string{"id", "exercise_id", "number", "reps", "weight_kg", "completed", "date"},
		orderBy: "date, id",
	},
	models.TableSetHistory: {
		columns: []string{"id", "exercise_id", "set_number", "reps", "weight_kg", "date"},
		orderBy: "date, id",
	},
	models.TableCardio: {
		columns: []string{"id", "activity", "duration_minutes", "distance_km", "calories", "date"},
		orderBy: "date, id",
	},
	models.TableProgressPhotos: {
		columns: []string{"id", "date", "weight_kg", "front", "side", "back", "notes"},
		orderBy: "date, id",
	},
	models.TableWorkoutHistory: {
		columns: []string{"id", "workout_id", "workout_name", "duration_minutes", "volume_kg", "date"},
		orderBy: "date, id",
	},
	models.TablePhotos: {
		columns: []string{"id", "date", "caption", "image"},
		orderBy: "date, id",
	},
	models.TableReports: {
		columns: []string{"id", "date", "week_start", "total_workouts", "total_volume_kg", "summary", "photos"},
		orderBy: "date, id",
	},
}

func specFor(t models.Table) (tableSpec, error) {
	spec, ok := tableSpecs[t]
	if !ok {
		return tableSpec{}, fmt.Errorf("unknown table %s", t)
	}
	return spec, nil
}

func selectQuery(t models.Table, spec tableSpec) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(spec.columns, ", "), t.SQLName(), spec.orderBy)
}

func insertQuery(t models.Table, spec tableSpec) string {
	named := make([]string, len(spec.columns))
	for i, c := range spec.columns {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.SQLName(), strings.Join(spec.columns, ", "), strings.Join(named, ", "))
}

// selectAll reads every row of t.
func selectAll[T any](ctx context.Context, q sqlx.QueryerContext, t models.Table) ([]T, error) {
	spec, err := specFor(t)
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := sqlx.SelectContext(ctx, q, &rows, selectQuery(t, spec)); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.SQLName(), err)
	}
	return rows, nil
}

// insertAll inserts rows into t with one prepared statement.
func insertAll[T any](ctx context.Context, tx *sqlx.Tx, t models.Table, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	spec, err := specFor(t)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareNamedContext(ctx, insertQuery(t, spec))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", t.SQLName(), err)
	}
	defer closeWithLog(stmt, "insert statement")

	for i := range rows {
		if _, err := stmt.ExecContext(ctx, &rows[i]); err != nil {
			return fmt.Errorf("failed to insert into %s (row %d): %w", t.SQLName(), i, err)
		}
	}
	return nil
}
